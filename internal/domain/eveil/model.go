package eveil

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EveilItem is one entry of the "Éveil aux langues" section: a short
// language-awareness article or activity, optionally carrying a media file.
type EveilItem struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Slug     string `gorm:"not null;uniqueIndex:idx_eveil_items_slug" json:"slug"`
	Language string `gorm:"type:varchar(16);index" json:"language"`
	Body     string `gorm:"type:text" json:"body"`

	MediaPath *string `gorm:"column:media_path" json:"media_path,omitempty"`

	IsPremium bool `gorm:"not null;default:false;index" json:"is_premium"`
	Published bool `gorm:"not null;default:false;index" json:"published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *EveilItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
