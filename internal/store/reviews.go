package store

import (
	"context"
	"time"

	"github.com/sajidk/furniture-store/internal/models"

	"gorm.io/gorm"
)

// ReviewStore owns customer reviews.
type ReviewStore struct {
	db *gorm.DB
}

func NewReviewStore(db *gorm.DB) *ReviewStore { return &ReviewStore{db: db} }

// ReviewWithProduct is the moderation listing row; the product name rides
// along so the back office can show what was reviewed.
type ReviewWithProduct struct {
	ID           uint                `json:"review_id"`
	ProductID    uint                `json:"product_id"`
	ProductName  string              `json:"product_name"`
	CustomerName string              `json:"customer_name"`
	Rating       int                 `json:"rating"`
	Content      string              `json:"content"`
	Status       models.ReviewStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Create inserts a review for an existing product; a dangling product id
// comes back as ErrNotFound.
func (s *ReviewStore) Create(ctx context.Context, r *models.Review) error {
	err := s.db.WithContext(ctx).Create(r).Error
	if err != nil && isForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

// ListApprovedForProduct returns the publicly visible reviews of a product.
func (s *ReviewStore) ListApprovedForProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, models.ReviewApproved).
		Order("review_id desc").
		Find(&reviews).Error
	return reviews, err
}

// ListAll returns every review joined with its product name, newest first.
func (s *ReviewStore) ListAll(ctx context.Context) ([]ReviewWithProduct, error) {
	var rows []ReviewWithProduct
	err := s.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.review_id AS id, reviews.product_id, products.name AS product_name, reviews.customer_name, reviews.rating, reviews.content, reviews.status, reviews.created_at").
		Joins("JOIN products ON products.product_id = reviews.product_id").
		Order("reviews.review_id desc").
		Scan(&rows).Error
	return rows, err
}

func (s *ReviewStore) UpdateStatus(ctx context.Context, id uint, status models.ReviewStatus) error {
	res := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("review_id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ReviewStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
