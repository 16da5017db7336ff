package courses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course categories shown in the app. Kept as plain strings so new ones can
// be added without a migration.
const (
	CategoryLangues       = "langues"
	CategoryMathematiques = "mathematiques"
	CategorySciences      = "sciences"
	CategoryArts          = "arts"
	CategoryDecouverte    = "decouverte-du-monde"
)

type Course struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`

	IsPremium bool `gorm:"not null;default:false;index" json:"is_premium"`
	Published bool `gorm:"not null;default:false;index" json:"published"`

	// Object storage keys, not URLs.
	PDFPath       *string `gorm:"column:pdf_path" json:"pdf_path,omitempty"`
	ThumbnailPath *string `gorm:"column:thumbnail_path" json:"thumbnail_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func ValidCategory(category string) bool {
	switch category {
	case CategoryLangues, CategoryMathematiques, CategorySciences, CategoryArts, CategoryDecouverte:
		return true
	}
	return false
}
