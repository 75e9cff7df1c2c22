package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"productapi/internal/apperrors"
	"productapi/internal/dto"
	"productapi/internal/models"
	"productapi/internal/query"
	"productapi/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindPage(ctx context.Context, criteria query.Criteria, page query.PageRequest) (query.Page[models.Product], error) {
	args := m.Called(ctx, criteria, page)
	return args.Get(0).(query.Page[models.Product]), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventID, eventType string, payload interface{}) error {
	args := m.Called(ctx, eventID, eventType, payload)
	return args.Error(0)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	ctx      = context.Background()
	now      = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	released = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Product 1", Description: "Description 1", Brand: "Brand A", Price: price("99.99"), Category: "Category 1", ReleaseDate: released, Available: true, Quantity: 50},
		{ID: 2, Name: "Product 2", Description: "Description 2", Brand: "Brand B", Price: price("50.00"), Category: "Category 2", ReleaseDate: released, Available: true, Quantity: 50},
	}
}

func newService(repo *MockProductRepository, opts ...services.Option) *services.ProductService {
	opts = append([]services.Option{services.WithClock(fixedClock{now: now})}, opts...)
	return services.NewProductService(repo, logger, opts...)
}

func TestProductService_GetAll(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("GetAll", ctx).Return(testProducts(), nil).Once()

	views, err := service.GetAll(ctx)

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "Product 1", views[0].Name)
	assert.Equal(t, "Product 2", views[1].Name)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetAll_Error(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("GetAll", ctx).Return(nil, fmt.Errorf("database error")).Once()

	views, err := service.GetAll(ctx)

	assert.Error(t, err)
	assert.Nil(t, views)
	mockRepo.AssertExpectations(t)
}

func TestProductService_FilterSelectsCriteria(t *testing.T) {
	tests := []struct {
		name     string
		nameArg  *string
		category *string
		want     query.Criteria
	}{
		{
			name: "no filters",
			want: query.Where(),
		},
		{
			name:     "category only",
			category: strPtr("Category"),
			want:     query.Where(query.Contains(models.ColumnCategory, "Category")),
		},
		{
			name:    "name only",
			nameArg: strPtr("Product"),
			want:    query.Where(query.Contains(models.ColumnName, "Product")),
		},
		{
			name:     "name and category",
			nameArg:  strPtr("Product"),
			category: strPtr("Category"),
			want: query.Where(
				query.Contains(models.ColumnName, "Product"),
				query.Contains(models.ColumnCategory, "Category"),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := newService(mockRepo)

			pageReq := query.PageRequest{Page: 0, Size: 2}
			stored := query.NewPage(testProducts(), pageReq, 2)
			mockRepo.On("FindPage", ctx, tt.want, pageReq).Return(stored, nil).Once()

			page, err := service.Filter(ctx, tt.nameArg, tt.category, 0, 2)

			require.NoError(t, err)
			assert.Len(t, page.Content, 2)
			assert.Equal(t, "Product 1", page.Content[0].Name)
			assert.Equal(t, int64(2), page.TotalElements)
			assert.Equal(t, 1, page.TotalPages)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_SearchSelectsCriteria(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)
	pageReq := query.PageRequest{Page: 1, Size: 5}
	empty := query.NewPage[models.Product](nil, pageReq, 0)

	mockRepo.On("FindPage", ctx, query.Where(), pageReq).Return(empty, nil).Once()
	_, err := service.Search(ctx, nil, 1, 5)
	require.NoError(t, err)

	keywordCriteria := query.Where(query.AnyOf(
		query.Contains(models.ColumnName, "acme"),
		query.Contains(models.ColumnDescription, "acme"),
		query.Contains(models.ColumnBrand, "acme"),
		query.Contains(models.ColumnCategory, "acme"),
	))
	mockRepo.On("FindPage", ctx, keywordCriteria, pageReq).Return(empty, nil).Once()
	page, err := service.Search(ctx, strPtr("acme"), 1, 5)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.NotNil(t, page.Content)

	mockRepo.AssertExpectations(t)
}

func TestProductService_InvalidPagination(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	_, err := service.Filter(ctx, nil, nil, -1, 10)
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "page")

	_, err = service.Search(ctx, nil, 0, 0)
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "size")

	mockRepo.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_GetByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	stored := testProducts()[0]
	mockRepo.On("GetByID", ctx, uint(1)).Return(&stored, nil).Once()
	view, err := service.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), view.ID)
	assert.Equal(t, released, view.ReleaseDate)

	mockRepo.On("GetByID", ctx, uint(99)).Return(nil, apperrors.NotFound("Product", 99)).Once()
	view, err = service.GetByID(ctx, 99)
	assert.Nil(t, view)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "Product not found with ID: 99")

	mockRepo.AssertExpectations(t)
}

func TestProductService_Create(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newService(mockRepo, services.WithPublisher(publisher))

	req := dto.CreateRequest{
		Name:      "Widget",
		Brand:     "Acme",
		Price:     price("9.99"),
		Category:  "Tools",
		Available: boolPtr(true),
		Quantity:  5,
	}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 0 && p.Name == "Widget" && p.ReleaseDate.Equal(now)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = 10
	}).Return(nil).Once()
	publisher.On("Publish", ctx, mock.AnythingOfType("string"), services.EventProductCreated,
		mock.MatchedBy(func(e services.ProductEvent) bool {
			return e.ProductID == 10 && e.Product != nil && e.Product.Name == "Widget" && e.EventID != ""
		})).Return(nil).Once()

	view, err := service.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, uint(10), view.ID)
	assert.Equal(t, now, view.ReleaseDate)
	assert.Equal(t, "Widget", view.Name)
	assert.Equal(t, "Acme", view.Brand)
	assert.True(t, view.Price.Equal(price("9.99")))
	assert.Equal(t, "Tools", view.Category)
	assert.True(t, view.Available)
	assert.Equal(t, 5, view.Quantity)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_Create_RepositoryError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newService(mockRepo, services.WithPublisher(publisher))

	conflict := apperrors.Conflict("failed to create product", fmt.Errorf("UNIQUE constraint failed"))
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(conflict).Once()

	view, err := service.Create(ctx, dto.CreateRequest{Name: "Widget", Available: boolPtr(true)})

	assert.Nil(t, view)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Create_PublishFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newService(mockRepo, services.WithPublisher(publisher))

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	publisher.On("Publish", ctx, mock.Anything, services.EventProductCreated, mock.Anything).
		Return(fmt.Errorf("channel closed")).Once()

	view, err := service.Create(ctx, dto.CreateRequest{Name: "Widget", Available: boolPtr(false)})

	assert.NoError(t, err)
	assert.NotNil(t, view)
	publisher.AssertExpectations(t)
}

func TestProductService_Update(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newService(mockRepo, services.WithPublisher(publisher))

	existing := testProducts()[0]
	req := dto.UpdateRequest{
		ID:          1,
		Name:        "Product 1 Updated",
		Description: "New description",
		Brand:       "Brand C",
		Price:       price("12.00"),
		Category:    "Category 3",
		Available:   boolPtr(false),
		Quantity:    95,
	}

	mockRepo.On("GetByID", ctx, uint(1)).Return(&existing, nil).Once()
	mockRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 1 && p.ReleaseDate.Equal(released) && p.Name == "Product 1 Updated" && p.Quantity == 95
	})).Return(nil).Once()
	publisher.On("Publish", ctx, mock.Anything, services.EventProductUpdated, mock.Anything).Return(nil).Once()

	view, err := service.Update(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, uint(1), view.ID)
	assert.Equal(t, released, view.ReleaseDate)
	assert.Equal(t, "Product 1 Updated", view.Name)
	assert.Equal(t, "New description", view.Description)
	assert.Equal(t, "Brand C", view.Brand)
	assert.True(t, view.Price.Equal(price("12")))
	assert.Equal(t, "Category 3", view.Category)
	assert.False(t, view.Available)
	assert.Equal(t, 95, view.Quantity)

	// the entity returned by the store is not mutated by the merge
	assert.Equal(t, "Product 1", existing.Name)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("GetByID", ctx, uint(99)).Return(nil, apperrors.NotFound("Product", 99)).Once()

	view, err := service.Update(ctx, dto.UpdateRequest{ID: 99, Name: "NonExistent"})

	assert.Nil(t, view)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_DeleteByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newService(mockRepo, services.WithPublisher(publisher))

	stored := testProducts()[0]
	mockRepo.On("GetByID", ctx, uint(1)).Return(&stored, nil).Once()
	mockRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	publisher.On("Publish", ctx, mock.Anything, services.EventProductDeleted,
		mock.MatchedBy(func(e services.ProductEvent) bool { return e.ProductID == 1 && e.Product == nil })).
		Return(nil).Once()

	err := service.DeleteByID(ctx, 1)
	assert.NoError(t, err)

	mockRepo.On("GetByID", ctx, uint(99)).Return(nil, apperrors.NotFound("Product", 99)).Once()
	err = service.DeleteByID(ctx, 99)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "not found with ID: 99")

	mockRepo.AssertNotCalled(t, "Delete", ctx, uint(99))
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
