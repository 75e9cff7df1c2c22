package repositories

import (
	"context"
	"errors"
	"fmt"

	"productapi/internal/apperrors"
	"productapi/internal/models"
	"productapi/internal/query"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order(models.ColumnID + " ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// FindPage counts the rows matching criteria and loads the requested slice of them.
func (r *GORMProductRepository) FindPage(ctx context.Context, criteria query.Criteria, page query.PageRequest) (query.Page[models.Product], error) {
	filtered := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&models.Product{})
		for _, cond := range criteria {
			sql, args := cond.SQL()
			tx = tx.Where(sql, args...)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return query.Page[models.Product]{}, fmt.Errorf("failed to count products: %w", err)
	}

	// Pages past the end are answered without a query; this also keeps the
	// offset within int range for GORM.
	var products []models.Product
	if offset := page.Offset(); offset < total {
		err := filtered().
			Order(models.ColumnID + " ASC").
			Offset(int(offset)).
			Limit(page.Size).
			Find(&products).Error
		if err != nil {
			return query.Page[models.Product]{}, fmt.Errorf("failed to find products: %w", err)
		}
	}

	return query.NewPage(products, page, total), nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, models.ColumnID+" = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(productResource, int64(id))
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product; the database assigns its ID.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return translateError("failed to create product", err)
	}
	return nil
}

// Update overwrites every column except ID and ReleaseDate.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	// Save would insert the row again if it was deleted concurrently, so a
	// plain UPDATE is used and a zero row count is reported as not found.
	res := r.db.WithContext(ctx).
		Model(product).
		Select("*").
		Omit(models.ColumnID, models.ColumnReleaseDate).
		Updates(product)
	if res.Error != nil {
		return translateError("failed to update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(productResource, int64(product.ID))
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, models.ColumnID+" = ?", id)
	if res.Error != nil {
		return translateError("failed to delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(productResource, int64(id))
	}
	return nil
}

// translateError maps GORM's translated constraint errors to apperrors.ErrConflict.
func translateError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperrors.Conflict(op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
