package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kivaiakids-api/config"
	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	r := authRouter()

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed bearer", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": float64(1),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{
			"user_id": float64(1),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": float64(7),
			"email":   "kid@example.com",
			"role":    "student",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) { c.Set("role", "student"); c.Next() }, RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func premiumRouter(userID uint) *gin.Engine {
	r := gin.New()
	r.GET("/premium", func(c *gin.Context) { c.Set("user_id", userID); c.Next() }, RequirePremium(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequirePremium(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&subscriptions.Subscription{}))
	database.DB = db

	t.Run("no subscription", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/premium", nil)
		premiumRouter(1).ServeHTTP(w, req)
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("active subscription", func(t *testing.T) {
		end := time.Now().Add(24 * time.Hour)
		require.NoError(t, db.Create(&subscriptions.Subscription{
			UserID:               2,
			StripeSubscriptionID: "sub_guard",
			Plan:                 subscriptions.PlanMonthly,
			Status:               subscriptions.StatusActive,
			CurrentPeriodEnd:     &end,
		}).Error)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/premium", nil)
		premiumRouter(2).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("expired subscription", func(t *testing.T) {
		end := time.Now().Add(-24 * time.Hour)
		require.NoError(t, db.Create(&subscriptions.Subscription{
			UserID:               3,
			StripeSubscriptionID: "sub_expired_guard",
			Plan:                 subscriptions.PlanMonthly,
			Status:               subscriptions.StatusActive,
			CurrentPeriodEnd:     &end,
		}).Error)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/premium", nil)
		premiumRouter(3).ServeHTTP(w, req)
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})
}
