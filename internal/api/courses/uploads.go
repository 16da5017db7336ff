package courses

import (
	"fmt"
	"net/http"
	"path/filepath"

	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/courses"
	"kivaiakids-api/internal/infra/storage"

	"github.com/gin-gonic/gin"
)

// UploadCoursePDF handles POST /admin/courses/:id/pdf (multipart "file").
func UploadCoursePDF(c *gin.Context) {
	uploadCourseFile(c, "pdf_path", "pdfs", "application/pdf")
}

// UploadCourseThumbnail handles POST /admin/courses/:id/thumbnail.
func UploadCourseThumbnail(c *gin.Context) {
	uploadCourseFile(c, "thumbnail_path", "thumbnails", "")
}

// removeStoredFile deletes an object left behind by a deleted or replaced
// row. Best effort: the database is already consistent, an orphan in the
// bucket only costs storage.
func removeStoredFile(c *gin.Context, key *string) {
	if key == nil || *key == "" || storage.Default == nil {
		return
	}
	if err := storage.Default.Remove(c.Request.Context(), *key); err != nil {
		fmt.Println("Course file cleanup failed:", err)
	}
}

func uploadCourseFile(c *gin.Context, column, prefix, wantContentType string) {
	if storage.Default == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage not configured"})
		return
	}

	var course courses.Course
	if err := database.DB.Where("id = ?", c.Param("id")).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if wantContentType != "" && contentType != wantContentType {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unexpected file type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("courses/%s/%s/%s", course.ID, prefix, filepath.Base(fileHeader.Filename))
	if err := storage.Default.Upload(c.Request.Context(), key, contentType, file); err != nil {
		fmt.Println("Course file upload failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	if err := database.DB.Model(&courses.Course{}).
		Where("id = ?", course.ID).
		Update(column, key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file path"})
		return
	}

	previous := course.ThumbnailPath
	if column == "pdf_path" {
		previous = course.PDFPath
	}
	if previous != nil && *previous != key {
		removeStoredFile(c, previous)
	}

	c.JSON(http.StatusOK, gin.H{"path": key, "url": storage.Default.PublicURL(key)})
}
