package services

import (
	"context"
	"fmt"
	"log/slog"

	"productapi/internal/dto"
	"productapi/internal/mapper"
	"productapi/internal/models"
	"productapi/internal/query"
	"productapi/internal/repositories"

	"github.com/google/uuid"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher // Optional
	clock     Clock
	logger    *slog.Logger
}

// Option customizes a ProductService.
type Option func(*ProductService)

// WithPublisher enables lifecycle event publication.
func WithPublisher(publisher EventPublisher) Option {
	return func(s *ProductService) { s.publisher = publisher }
}

// WithClock overrides the clock used to stamp release dates.
func WithClock(clock Clock) Option {
	return func(s *ProductService) { s.clock = clock }
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, logger *slog.Logger, opts ...Option) *ProductService {
	s := &ProductService{
		repo:   repo,
		clock:  realClock{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll retrieves every product, unpaginated.
func (s *ProductService) GetAll(ctx context.Context) ([]dto.ProductView, error) {
	s.logger.DebugContext(ctx, "retrieving all products")
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToViews(products), nil
}

// Filter returns a page of products whose name and/or category contain the given values.
// A nil filter is not applied; both nil returns every product.
func (s *ProductService) Filter(ctx context.Context, name, category *string, page, size int) (query.Page[dto.ProductView], error) {
	s.logger.DebugContext(ctx, "filtering products", "name", name, "category", category, "page", page, "size", size)
	return s.findPage(ctx, filterCriteria(name, category), page, size)
}

// Search returns a page of products whose name, description, brand or category
// contains keyword. A nil keyword returns every product.
func (s *ProductService) Search(ctx context.Context, keyword *string, page, size int) (query.Page[dto.ProductView], error) {
	s.logger.DebugContext(ctx, "searching products", "keyword", keyword, "page", page, "size", size)
	return s.findPage(ctx, searchCriteria(keyword), page, size)
}

// GetByID retrieves a single product by its ID.
func (s *ProductService) GetByID(ctx context.Context, id uint) (*dto.ProductView, error) {
	s.logger.DebugContext(ctx, "retrieving product", "id", id)
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := mapper.ToView(*product)
	return &view, nil
}

// Create stores a new product released now.
func (s *ProductService) Create(ctx context.Context, req dto.CreateRequest) (*dto.ProductView, error) {
	s.logger.DebugContext(ctx, "creating product", "name", req.Name)
	product := mapper.ToEntity(req)
	product.ReleaseDate = s.clock.Now()

	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, err
	}

	view := mapper.ToView(product)
	s.logger.DebugContext(ctx, "product created", "id", view.ID)
	s.publish(ctx, EventProductCreated, view.ID, &view)
	return &view, nil
}

// Update overwrites an existing product, keeping its ID and release date.
func (s *ProductService) Update(ctx context.Context, req dto.UpdateRequest) (*dto.ProductView, error) {
	s.logger.DebugContext(ctx, "updating product", "id", req.ID)
	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	product := mapper.MergeUpdate(*existing, req)
	if err := s.repo.Update(ctx, &product); err != nil {
		return nil, err
	}

	view := mapper.ToView(product)
	s.logger.DebugContext(ctx, "product updated", "id", view.ID)
	s.publish(ctx, EventProductUpdated, view.ID, &view)
	return &view, nil
}

// DeleteByID deletes a product after checking that it exists.
func (s *ProductService) DeleteByID(ctx context.Context, id uint) error {
	s.logger.DebugContext(ctx, "deleting product", "id", id)
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "product deleted", "id", id)
	s.publish(ctx, EventProductDeleted, id, nil)
	return nil
}

func (s *ProductService) findPage(ctx context.Context, criteria query.Criteria, page, size int) (query.Page[dto.ProductView], error) {
	pageReq, err := query.NewPageRequest(page, size)
	if err != nil {
		return query.Page[dto.ProductView]{}, err
	}

	products, err := s.repo.FindPage(ctx, criteria, pageReq)
	if err != nil {
		return query.Page[dto.ProductView]{}, err
	}
	return query.MapPage(products, mapper.ToView), nil
}

// filterCriteria ANDs a contains-condition for each filter that was supplied.
func filterCriteria(name, category *string) query.Criteria {
	criteria := query.Where()
	if name != nil {
		criteria = criteria.And(query.Contains(models.ColumnName, *name))
	}
	if category != nil {
		criteria = criteria.And(query.Contains(models.ColumnCategory, *category))
	}
	return criteria
}

// searchCriteria matches keyword against any text column; nil means no filtering.
func searchCriteria(keyword *string) query.Criteria {
	if keyword == nil {
		return query.Where()
	}
	return query.Where(query.AnyOf(
		query.Contains(models.ColumnName, *keyword),
		query.Contains(models.ColumnDescription, *keyword),
		query.Contains(models.ColumnBrand, *keyword),
		query.Contains(models.ColumnCategory, *keyword),
	))
}

// publish sends a lifecycle event. Failures are logged and never fail the request.
func (s *ProductService) publish(ctx context.Context, eventType string, productID uint, view *dto.ProductView) {
	if s.publisher == nil {
		return
	}

	event := ProductEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: s.clock.Now(),
		Product:    view,
	}
	if err := s.publisher.Publish(ctx, event.EventID, eventType, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product event",
			"type", eventType, "product_id", productID, "error", fmt.Errorf("publish %s: %w", event.EventID, err))
		return
	}
	s.logger.DebugContext(ctx, "published product event", "type", eventType, "event_id", event.EventID)
}
