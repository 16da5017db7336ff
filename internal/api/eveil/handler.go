package eveil

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/eveil"
	"kivaiakids-api/internal/domain/subscriptions"
	"kivaiakids-api/internal/infra/storage"

	"github.com/gin-gonic/gin"
)

type CreateItemRequest struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Language  string `json:"language" binding:"required"`
	Body      string `json:"body"`
	IsPremium bool   `json:"is_premium"`
}

type UpdateItemRequest struct {
	Title     *string `json:"title"`
	Language  *string `json:"language"`
	Body      *string `json:"body"`
	IsPremium *bool   `json:"is_premium"`
}

type ItemDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Language  string    `json:"language"`
	Body      string    `json:"body,omitempty"`
	MediaURL  *string   `json:"media_url,omitempty"`
	IsPremium bool      `json:"is_premium"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// toItemDTO withholds body and media from premium items unless the caller
// is entitled.
func toItemDTO(item eveil.EveilItem, includePremiumContent bool) ItemDTO {
	dto := ItemDTO{
		ID:        item.ID,
		Title:     item.Title,
		Slug:      item.Slug,
		Language:  item.Language,
		IsPremium: item.IsPremium,
		Published: item.Published,
		CreatedAt: item.CreatedAt,
	}
	if !item.IsPremium || includePremiumContent {
		dto.Body = item.Body
		if item.MediaPath != nil && *item.MediaPath != "" && storage.Default != nil {
			url := storage.Default.PublicURL(*item.MediaPath)
			dto.MediaURL = &url
		}
	}
	return dto
}

// ------------------------------
// GET /eveil (public)
// ------------------------------
func ListItems(c *gin.Context) {
	q := database.DB.Where("published = ?", true)
	if lang := c.Query("language"); lang != "" {
		q = q.Where("language = ?", lang)
	}

	var items []eveil.EveilItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}

	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toItemDTO(item, false))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /eveil/:slug (auth)
// ------------------------------
func GetItem(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var item eveil.EveilItem
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if !item.Published && c.GetString("role") != "admin" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	if item.IsPremium && c.GetString("role") != "admin" {
		status := subscriptions.Resolve(database.DB, time.Now(), userID)
		if !status.IsPremium {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "An active subscription is required"})
			return
		}
	}

	c.JSON(http.StatusOK, toItemDTO(item, true))
}

// ------------------------------
// Admin CRUD
// ------------------------------
func CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := eveil.EveilItem{
		Title:     req.Title,
		Slug:      req.Slug,
		Language:  req.Language,
		Body:      req.Body,
		IsPremium: req.IsPremium,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug may already exist"})
		return
	}

	c.JSON(http.StatusCreated, toItemDTO(item, true))
}

func UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item eveil.EveilItem
	if err := database.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.IsPremium != nil {
		updates["is_premium"] = *req.IsPremium
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&item).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
			return
		}
	}

	c.JSON(http.StatusOK, toItemDTO(item, true))
}

func DeleteItem(c *gin.Context) {
	var item eveil.EveilItem
	if err := database.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if err := database.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	removeStoredMedia(c, item.MediaPath)
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// removeStoredMedia deletes a media object whose owning row is gone or whose
// path was replaced. Best effort, an orphan in the bucket only costs storage.
func removeStoredMedia(c *gin.Context, key *string) {
	if key == nil || *key == "" || storage.Default == nil {
		return
	}
	if err := storage.Default.Remove(c.Request.Context(), *key); err != nil {
		fmt.Println("Eveil media cleanup failed:", err)
	}
}

func setPublished(c *gin.Context, published bool) {
	result := database.DB.Model(&eveil.EveilItem{}).
		Where("id = ?", c.Param("id")).
		Update("published", published)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": published})
}

func PublishItem(c *gin.Context)   { setPublished(c, true) }
func UnpublishItem(c *gin.Context) { setPublished(c, false) }

// UploadItemMedia handles POST /admin/eveil/:id/media (multipart "file").
func UploadItemMedia(c *gin.Context) {
	if storage.Default == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage not configured"})
		return
	}

	var item eveil.EveilItem
	if err := database.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("eveil/%s/%s", item.ID, filepath.Base(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if err := storage.Default.Upload(c.Request.Context(), key, contentType, file); err != nil {
		fmt.Println("Eveil media upload failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	if err := database.DB.Model(&eveil.EveilItem{}).
		Where("id = ?", item.ID).
		Update("media_path", key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store media path"})
		return
	}

	if item.MediaPath != nil && *item.MediaPath != key {
		removeStoredMedia(c, item.MediaPath)
	}

	c.JSON(http.StatusOK, gin.H{"path": key, "url": storage.Default.PublicURL(key)})
}
