package courses

import (
	"net/http"
	"time"

	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/courses"
	"kivaiakids-api/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

// ------------------------------
// GET /courses (public)
// ------------------------------
func ListCourses(c *gin.Context) {
	q := database.DB.Where("published = ?", true)
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var list []courses.Course
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}

	out := make([]CourseDTO, 0, len(list))
	for _, course := range list {
		out = append(out, toCourseDTO(course, false))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /courses/:id (auth)
// ------------------------------
func GetCourse(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var course courses.Course
	if err := database.DB.Where("id = ?", c.Param("id")).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	if !course.Published && c.GetString("role") != "admin" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	includePremium := !course.IsPremium
	if course.IsPremium {
		status := subscriptions.Resolve(database.DB, time.Now(), userID)
		if !status.IsPremium && c.GetString("role") != "admin" {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "An active subscription is required"})
			return
		}
		includePremium = true
	}

	c.JSON(http.StatusOK, toCourseDTO(course, includePremium))
}

// ------------------------------
// GET /premium/library (auth + premium guard)
// ------------------------------
func GetPremiumLibrary(c *gin.Context) {
	var list []courses.Course
	if err := database.DB.
		Where("published = ? AND is_premium = ?", true, true).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}

	out := make([]CourseDTO, 0, len(list))
	for _, course := range list {
		out = append(out, toCourseDTO(course, true))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// Admin CRUD
// ------------------------------
func CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !courses.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	course := courses.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsPremium:   req.IsPremium,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, toCourseDTO(course, true))
}

func UpdateCourse(c *gin.Context) {
	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var course courses.Course
	if err := database.DB.Where("id = ?", c.Param("id")).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		if !courses.ValidCategory(*req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		updates["category"] = *req.Category
	}
	if req.IsPremium != nil {
		updates["is_premium"] = *req.IsPremium
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&course).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
			return
		}
	}

	c.JSON(http.StatusOK, toCourseDTO(course, true))
}

func DeleteCourse(c *gin.Context) {
	var course courses.Course
	if err := database.DB.Where("id = ?", c.Param("id")).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	if err := database.DB.Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete course"})
		return
	}

	removeStoredFile(c, course.PDFPath)
	removeStoredFile(c, course.ThumbnailPath)

	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}

func setPublished(c *gin.Context, published bool) {
	result := database.DB.Model(&courses.Course{}).
		Where("id = ?", c.Param("id")).
		Update("published", published)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": published})
}

func PublishCourse(c *gin.Context)   { setPublished(c, true) }
func UnpublishCourse(c *gin.Context) { setPublished(c, false) }
