package mapper

import (
	"productapi/internal/dto"
	"productapi/internal/models"
)

// ToEntity maps a create request to a new, unsaved product.
// Prices are rounded to the scale the store keeps, so responses match later reads.
// ID and ReleaseDate are left zero for the store and the service to assign.
func ToEntity(req dto.CreateRequest) models.Product {
	return models.Product{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Price:       req.Price.Round(models.PriceScale),
		Category:    req.Category,
		Available:   boolValue(req.Available),
		Quantity:    req.Quantity,
	}
}

// MergeUpdate returns a copy of existing with every updatable field taken from req.
// ID and ReleaseDate always come from existing.
func MergeUpdate(existing models.Product, req dto.UpdateRequest) models.Product {
	merged := existing
	merged.Name = req.Name
	merged.Description = req.Description
	merged.Brand = req.Brand
	merged.Price = req.Price.Round(models.PriceScale)
	merged.Category = req.Category
	merged.Available = boolValue(req.Available)
	merged.Quantity = req.Quantity
	return merged
}

// ToView maps a stored product to its view.
func ToView(p models.Product) dto.ProductView {
	return dto.ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Price:       p.Price,
		Category:    p.Category,
		ReleaseDate: p.ReleaseDate,
		Available:   p.Available,
		Quantity:    p.Quantity,
	}
}

// ToViews maps every product, preserving order.
func ToViews(products []models.Product) []dto.ProductView {
	views := make([]dto.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ToView(p))
	}
	return views
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
