package repositories

import (
	"context"
	"sort"
	"sync"

	"productapi/internal/apperrors"
	"productapi/internal/models"
	"productapi/internal/query"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It evaluates query criteria in process and orders results by ID like the SQL store.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products.
func (r *MemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(query.Where()), nil
}

// FindPage returns the requested page of products matching criteria.
func (r *MemoryProductRepository) FindPage(ctx context.Context, criteria query.Criteria, page query.PageRequest) (query.Page[models.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.sorted(criteria)
	total := int64(len(matched))

	offset := page.Offset()
	if offset >= total {
		return query.NewPage[models.Product](nil, page, total), nil
	}
	start := int(offset)
	end := len(matched)
	if page.Size < end-start {
		end = start + page.Size
	}
	return query.NewPage(matched[start:end], page, total), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound(productResource, int64(id))
	}
	return &product, nil
}

// Create adds a new product and assigns its ID.
func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product, keeping its stored release date.
func (r *MemoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return apperrors.NotFound(productResource, int64(product.ID))
	}
	product.ReleaseDate = existing.ReleaseDate
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound(productResource, int64(id))
	}
	delete(r.products, id)
	return nil
}

// sorted returns the products matching criteria ordered by ID. Callers hold the lock.
func (r *MemoryProductRepository) sorted(criteria query.Criteria) []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if criteria.Matches(p.Field) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
