package dto

import (
	"time"

	"github.com/uav-store/backend/internal/domain"
)

// ProductRequest payload for product create and patch. Absent fields are
// left untouched on patch.
type ProductRequest struct {
	Name                *string         `json:"name"`
	Images              *[]string       `json:"images"`
	Manufacturer        *string         `json:"manufacturer"`
	Category            *[]string       `json:"category"`
	Weight              *float64        `json:"weight"`
	Dimensions          *string         `json:"dimensions"`
	BatteryLife         *string         `json:"battery_life"`
	Range               *float64        `json:"range"`
	MaxSpeed            *float64        `json:"max_speed"`
	SensorType          *string         `json:"sensor_type"`
	ReleaseDate         *time.Time      `json:"release_date"`
	Supplier            *string         `json:"supplier"`
	Quantity            *int            `json:"quantity"`
	Description         *string         `json:"description"`
	Ratings             *float64        `json:"ratings"`
	Price               *float64        `json:"price"`
	AccessoriesIncluded *[]string       `json:"accessories_included"`
	Compatibility       *string         `json:"compatibility"`
	Type                *map[string]any `json:"type"`
	IsProminent         *bool           `json:"is_prominent"`
}

// ApplyTo copies the fields present in r onto p.
func (r ProductRequest) ApplyTo(p *domain.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Images != nil {
		p.Images = *r.Images
	}
	if r.Manufacturer != nil {
		p.Manufacturer = *r.Manufacturer
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Weight != nil {
		p.Weight = r.Weight
	}
	if r.Dimensions != nil {
		p.Dimensions = r.Dimensions
	}
	if r.BatteryLife != nil {
		p.BatteryLife = r.BatteryLife
	}
	if r.Range != nil {
		p.Range = r.Range
	}
	if r.MaxSpeed != nil {
		p.MaxSpeed = r.MaxSpeed
	}
	if r.SensorType != nil {
		p.SensorType = r.SensorType
	}
	if r.ReleaseDate != nil {
		p.ReleaseDate = *r.ReleaseDate
	}
	if r.Supplier != nil {
		p.Supplier = *r.Supplier
	}
	if r.Quantity != nil {
		p.Quantity = *r.Quantity
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Ratings != nil {
		p.Ratings = r.Ratings
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.AccessoriesIncluded != nil {
		p.AccessoriesIncluded = *r.AccessoriesIncluded
	}
	if r.Compatibility != nil {
		p.Compatibility = r.Compatibility
	}
	if r.Type != nil {
		p.Type = *r.Type
	}
	if r.IsProminent != nil {
		p.IsProminent = *r.IsProminent
	}
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID                  string         `json:"id"`
	Slug                string         `json:"slug"`
	Name                string         `json:"name"`
	Images              []string       `json:"images"`
	Manufacturer        string         `json:"manufacturer"`
	Category            []string       `json:"category"`
	Weight              *float64       `json:"weight"`
	Dimensions          *string        `json:"dimensions"`
	BatteryLife         *string        `json:"battery_life"`
	Range               *float64       `json:"range"`
	MaxSpeed            *float64       `json:"max_speed"`
	SensorType          *string        `json:"sensor_type"`
	ReleaseDate         time.Time      `json:"release_date"`
	Supplier            string         `json:"supplier"`
	Quantity            int            `json:"quantity"`
	Description         string         `json:"description"`
	Ratings             *float64       `json:"ratings"`
	Price               float64        `json:"price"`
	AccessoriesIncluded []string       `json:"accessories_included"`
	Compatibility       *string        `json:"compatibility"`
	Type                map[string]any `json:"type"`
	IsProminent         bool           `json:"is_prominent"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// NewProductResponse maps a product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:                  p.ID,
		Slug:                p.Slug,
		Name:                p.Name,
		Images:              p.Images,
		Manufacturer:        p.Manufacturer,
		Category:            p.Category,
		Weight:              p.Weight,
		Dimensions:          p.Dimensions,
		BatteryLife:         p.BatteryLife,
		Range:               p.Range,
		MaxSpeed:            p.MaxSpeed,
		SensorType:          p.SensorType,
		ReleaseDate:         p.ReleaseDate,
		Supplier:            p.Supplier,
		Quantity:            p.Quantity,
		Description:         p.Description,
		Ratings:             p.Ratings,
		Price:               p.Price,
		AccessoriesIncluded: p.AccessoriesIncluded,
		Compatibility:       p.Compatibility,
		Type:                p.Type,
		IsProminent:         p.IsProminent,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// NewProductList maps a slice of products.
func NewProductList(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}
