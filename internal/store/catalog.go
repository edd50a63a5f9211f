package store

import (
	"context"
	"errors"

	"github.com/sajidk/furniture-store/internal/models"

	"gorm.io/gorm"
)

// RemoveOutcome distinguishes a permanent delete from the archive fallback.
// Callers must surface the difference; the two outcomes have different
// consequences for catalog visibility.
type RemoveOutcome int

const (
	RemoveDeleted RemoveOutcome = iota + 1
	RemoveArchived
)

// CatalogStore owns products and variants.
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore { return &CatalogStore{db: db} }

// ListActive returns the public catalog: active products only.
func (s *CatalogStore) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("product_id").
		Find(&products).Error
	return products, err
}

// ListAll returns every product, archived ones included, for the back office.
func (s *CatalogStore) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Order("product_id").Find(&products).Error
	return products, err
}

// Get fetches a product by id regardless of its active flag, so historical
// order lines can always resolve their product.
func (s *CatalogStore) Get(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Preload("Variants").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrNotFound
	}
	return p, err
}

func (s *CatalogStore) Create(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *CatalogStore) Update(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// Remove attempts a hard delete and falls back to archiving when the product
// is referenced by order history. The delete is attempted optimistically; a
// referential-integrity failure is the one error class converted into a
// non-error outcome.
func (s *CatalogStore) Remove(ctx context.Context, id uint) (RemoveOutcome, error) {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error == nil {
		if res.RowsAffected == 0 {
			return 0, ErrNotFound
		}
		return RemoveDeleted, nil
	}
	if !isForeignKeyViolation(res.Error) {
		return 0, res.Error
	}
	// Referenced by at least one order item: archive instead. Re-archiving an
	// already archived product is a no-op update and still succeeds.
	upd := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_id = ?", id).
		Update("is_active", false)
	if upd.Error != nil {
		return 0, upd.Error
	}
	return RemoveArchived, nil
}

// ListVariants returns all variants across products.
func (s *CatalogStore) ListVariants(ctx context.Context) ([]models.Variant, error) {
	var variants []models.Variant
	err := s.db.WithContext(ctx).Order("variant_id").Find(&variants).Error
	return variants, err
}

func (s *CatalogStore) GetVariant(ctx context.Context, id uint) (models.Variant, error) {
	var v models.Variant
	err := s.db.WithContext(ctx).First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v, ErrNotFound
	}
	return v, err
}

// CreateVariant inserts a variant under an existing product. A missing parent
// or a taken SKU comes back as ErrNotFound / ErrDuplicateKey.
func (s *CatalogStore) CreateVariant(ctx context.Context, v *models.Variant) error {
	err := s.db.WithContext(ctx).Create(v).Error
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicateKey
	}
	return err
}

func (s *CatalogStore) UpdateVariant(ctx context.Context, v *models.Variant) error {
	err := s.db.WithContext(ctx).Save(v).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}
