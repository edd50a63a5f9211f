package models

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewHidden   ReviewStatus = "HIDDEN"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewHidden:
		return true
	}
	return false
}

// Review lands as PENDING and only shows up publicly once approved.
type Review struct {
	ID           uint         `gorm:"primaryKey;column:review_id" json:"review_id"`
	ProductID    uint         `gorm:"not null;index" json:"product_id"`
	Product      Product      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CustomerName string       `gorm:"size:255;not null" json:"customer_name"`
	Rating       int          `gorm:"not null" json:"rating"`
	Content      string       `gorm:"not null" json:"content"`
	Status       ReviewStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
