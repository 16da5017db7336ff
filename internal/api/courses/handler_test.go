package courses

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kivaiakids-api/database"
	coursesdomain "kivaiakids-api/internal/domain/courses"
	"kivaiakids-api/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&coursesdomain.Course{}, &subscriptions.Subscription{}))
	database.DB = db
	return db
}

// stubAuth mimics AuthMiddleware for handler tests.
func stubAuth(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func testRouter(userID uint, role string) *gin.Engine {
	r := gin.New()
	r.GET("/courses", ListCourses)
	r.GET("/courses/:id", stubAuth(userID, role), GetCourse)
	r.POST("/admin/courses", stubAuth(userID, role), CreateCourse)
	r.PUT("/admin/courses/:id", stubAuth(userID, role), UpdateCourse)
	r.DELETE("/admin/courses/:id", stubAuth(userID, role), DeleteCourse)
	r.POST("/admin/courses/:id/publish", stubAuth(userID, role), PublishCourse)
	return r
}

func TestCreateCourse(t *testing.T) {
	setupDB(t)
	r := testRouter(1, "admin")

	t.Run("valid course", func(t *testing.T) {
		body, _ := json.Marshal(CreateCourseRequest{
			Title:    "Compter jusqu'à 10",
			Category: coursesdomain.CategoryMathematiques,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/courses", bytes.NewReader(body))
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var dto CourseDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.NotEmpty(t, dto.ID)
		assert.False(t, dto.Published)
	})

	t.Run("unknown category", func(t *testing.T) {
		body, _ := json.Marshal(CreateCourseRequest{Title: "x", Category: "astrologie"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/courses", bytes.NewReader(body))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListCourses_OnlyPublished(t *testing.T) {
	db := setupDB(t)
	r := testRouter(1, "student")

	require.NoError(t, db.Create(&coursesdomain.Course{
		Title: "Publié", Category: coursesdomain.CategoryLangues, Published: true,
	}).Error)
	require.NoError(t, db.Create(&coursesdomain.Course{
		Title: "Brouillon", Category: coursesdomain.CategoryLangues,
	}).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var list []CourseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Publié", list[0].Title)
}

func TestGetCourse_PremiumGating(t *testing.T) {
	db := setupDB(t)

	course := coursesdomain.Course{
		Title:     "Éveil sonore",
		Category:  coursesdomain.CategoryLangues,
		IsPremium: true,
		Published: true,
	}
	require.NoError(t, db.Create(&course).Error)

	t.Run("student without subscription gets 402", func(t *testing.T) {
		r := testRouter(10, "student")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/courses/"+course.ID, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("subscribed student gets the course", func(t *testing.T) {
		end := time.Now().Add(24 * time.Hour)
		require.NoError(t, db.Create(&subscriptions.Subscription{
			UserID:               11,
			StripeSubscriptionID: "sub_course_test",
			Plan:                 subscriptions.PlanMonthly,
			Status:               subscriptions.StatusActive,
			CurrentPeriodEnd:     &end,
		}).Error)

		r := testRouter(11, "student")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/courses/"+course.ID, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin bypasses the gate", func(t *testing.T) {
		r := testRouter(12, "admin")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/courses/"+course.ID, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unpublished course is hidden from students", func(t *testing.T) {
		hidden := coursesdomain.Course{
			Title: "Caché", Category: coursesdomain.CategoryArts,
		}
		require.NoError(t, db.Create(&hidden).Error)

		r := testRouter(10, "student")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/courses/"+hidden.ID, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateAndDeleteCourse(t *testing.T) {
	db := setupDB(t)
	r := testRouter(1, "admin")

	course := coursesdomain.Course{Title: "Avant", Category: coursesdomain.CategorySciences}
	require.NoError(t, db.Create(&course).Error)

	newTitle := "Après"
	body, _ := json.Marshal(UpdateCourseRequest{Title: &newTitle})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/courses/"+course.ID, bytes.NewReader(body))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stored coursesdomain.Course
	require.NoError(t, db.First(&stored, "id = ?", course.ID).Error)
	assert.Equal(t, "Après", stored.Title)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/admin/courses/"+course.ID, nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&coursesdomain.Course{}).Where("id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Deleting again is a 404.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/admin/courses/"+course.ID, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishCourse(t *testing.T) {
	db := setupDB(t)
	r := testRouter(1, "admin")

	course := coursesdomain.Course{Title: "À publier", Category: coursesdomain.CategoryDecouverte}
	require.NoError(t, db.Create(&course).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/courses/"+course.ID+"/publish", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stored coursesdomain.Course
	require.NoError(t, db.First(&stored, "id = ?", course.ID).Error)
	assert.True(t, stored.Published)
}
