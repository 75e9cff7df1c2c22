package repositories

import (
	"context"

	"productapi/internal/models"
	"productapi/internal/query"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	// FindPage returns the page of products matching criteria, ordered by ID.
	FindPage(ctx context.Context, criteria query.Criteria, page query.PageRequest) (query.Page[models.Product], error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

const productResource = models.ResourceName
