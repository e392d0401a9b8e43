package domain

import (
	"strings"
	"time"
	"unicode"
)

const maxProductNameLen = 100

// Product is a catalogue item.
type Product struct {
	ID                  string
	Slug                string
	Name                string
	Images              []string
	Manufacturer        string
	Category            []string
	Weight              *float64
	Dimensions          *string
	BatteryLife         *string
	Range               *float64
	MaxSpeed            *float64
	SensorType          *string
	ReleaseDate         time.Time
	Supplier            string
	Quantity            int
	Description         string
	Ratings             *float64
	Price               float64
	AccessoriesIncluded []string
	Compatibility       *string
	Type                map[string]any
	IsProminent         bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Normalize trims text fields and derives the slug when it is missing.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Manufacturer = strings.TrimSpace(p.Manufacturer)
	p.Supplier = strings.TrimSpace(p.Supplier)
	if strings.TrimSpace(p.Slug) == "" && p.Name != "" {
		p.Slug = Slugify(p.Name)
	}
}

// Validate returns field level problems keyed by field name.
func (p *Product) Validate() map[string]any {
	problems := map[string]any{}
	switch {
	case p.Name == "":
		problems["name"] = "Product name is required"
	case len([]rune(p.Name)) > maxProductNameLen:
		problems["name"] = "Product name cannot exceed 100 characters"
	}
	if p.Manufacturer == "" {
		problems["manufacturer"] = "Manufacturer is required"
	}
	if len(p.Category) == 0 {
		problems["category"] = "Category is required"
	}
	if p.ReleaseDate.IsZero() {
		problems["release_date"] = "Release date is required"
	}
	if p.Supplier == "" {
		problems["supplier"] = "Supplier is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		problems["description"] = "Description is required"
	}
	if p.Price < 0 {
		problems["price"] = "Price must be a positive number"
	}
	if p.Quantity < 0 {
		problems["quantity"] = "Quantity cannot be negative"
	}
	if p.Ratings != nil && (*p.Ratings < 1 || *p.Ratings > 5) {
		problems["ratings"] = "Rating must be between 1.0 and 5.0"
	}
	if p.Type == nil {
		problems["type"] = "Type is required"
	}
	return problems
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
