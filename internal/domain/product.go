package domain

import (
	"time"

	"github.com/google/uuid"
)

// Categories is the fixed label list the storefront filter matches
// against. Category on a product itself is free-form text; nothing
// enforces membership.
var Categories = []string{"mini", "standard", "family", "premium", "sauna"}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;size:140" json:"slug"`
	Name        string    `gorm:"size:180" json:"name"`
	Price       int64     `gorm:"not null;default:0" json:"price"`
	Dimensions  string    `gorm:"size:120" json:"dimensions"`
	Guests      int       `gorm:"not null;default:0" json:"guests"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Images      []Image   `json:"images"`
	VideoURL    string    `gorm:"size:255" json:"videoUrl,omitempty"`
	InStock     bool      `gorm:"default:true" json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"-"`
	URL       string    `gorm:"size:512" json:"url"`
	Alt       string    `gorm:"size:140" json:"alt,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// FirstImage returns the first image URL, or "" when the product has none.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
