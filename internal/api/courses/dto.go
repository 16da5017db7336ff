package courses

import (
	"time"

	"kivaiakids-api/internal/domain/courses"
	"kivaiakids-api/internal/infra/storage"
)

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	IsPremium   bool   `json:"is_premium"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	IsPremium   *bool   `json:"is_premium"`
}

type CourseDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	IsPremium    bool      `json:"is_premium"`
	Published    bool      `json:"published"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	PDFURL       *string   `json:"pdf_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// toCourseDTO maps a course for a caller; the PDF link is withheld from
// premium courses unless the caller is entitled.
func toCourseDTO(course courses.Course, includePremiumContent bool) CourseDTO {
	dto := CourseDTO{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Category:    course.Category,
		IsPremium:   course.IsPremium,
		Published:   course.Published,
		CreatedAt:   course.CreatedAt,
	}
	dto.ThumbnailURL = publicURL(course.ThumbnailPath)
	if !course.IsPremium || includePremiumContent {
		dto.PDFURL = publicURL(course.PDFPath)
	}
	return dto
}

func publicURL(key *string) *string {
	if key == nil || *key == "" || storage.Default == nil {
		return nil
	}
	url := storage.Default.PublicURL(*key)
	return &url
}
