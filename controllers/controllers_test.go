package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Konathalavenkat/AuctionSphereX/config"
	"github.com/Konathalavenkat/AuctionSphereX/middleware"
	"github.com/Konathalavenkat/AuctionSphereX/models"
	"github.com/Konathalavenkat/AuctionSphereX/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "test-secret",
		RateLimitPerMinute: 10000,
		UploadDir:          t.TempDir(),
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		// Port 1 is never listening, so caching degrades to a no-op.
		RedisHost: "127.0.0.1",
		RedisPort: 1,
	})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	pc := NewProductController(db)
	nc := NewNotificationController(db)

	products := r.Group("/api/products")
	products.POST("/get-products", pc.GetProducts)
	products.GET("/get-product-by-id/:id", pc.GetProductByID)

	protected := products.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/add-product", pc.AddProduct)
	protected.PUT("/edit-product/:id", pc.EditProduct)
	protected.DELETE("/delete-product/:id", pc.DeleteProduct)
	protected.POST("/upload-image-to-product", pc.UploadImage)
	protected.PUT("/update-product-status/:id", pc.UpdateStatus)

	r.GET("/api/notifications", middleware.AuthRequired(), nc.List)
	return r
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", Role: role}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func authHeader(t *testing.T, u models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(u.ID, u.Role, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Code == http.StatusOK || w.Code == http.StatusUnauthorized {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
		}
	}
	return w, env
}
