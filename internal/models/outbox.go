package models

import "time"

type OutboxStatus int

const (
	OutboxPending OutboxStatus = 1
	OutboxDone    OutboxStatus = 2
)

// OutboxEvent is written in the same transaction as the state change it
// describes; a background relay pushes pending rows to the broker.
type OutboxEvent struct {
	ID        uint         `gorm:"primaryKey"`
	Topic     string       `gorm:"size:100;not null"`
	Payload   []byte       `gorm:"not null"`
	Status    OutboxStatus `gorm:"not null;default:1;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
