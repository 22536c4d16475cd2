package domain

import (
	"time"

	"github.com/google/uuid"
)

// Brochure is a downloadable PDF catalog record. It has no lifecycle
// coupling to products or orders.
type Brochure struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:180" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CoverImage  string    `gorm:"size:512" json:"coverImage"`
	PDFURL      string    `gorm:"size:512" json:"pdfUrl"`
	PDFFileName string    `gorm:"size:255" json:"pdfFileName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}
