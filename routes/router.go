package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Konathalavenkat/AuctionSphereX/config"
	"github.com/Konathalavenkat/AuctionSphereX/controllers"
	"github.com/Konathalavenkat/AuctionSphereX/middleware"
	"github.com/Konathalavenkat/AuctionSphereX/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Locally stored uploads are served from here; MinIO serves its own URLs.
	r.Static("/static/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.OK(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	productController := controllers.NewProductController(db)
	notificationController := controllers.NewNotificationController(db)
	configController := controllers.NewConfigController()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	products := api.Group("/products")
	// Public reads
	products.POST("/get-products", productController.GetProducts)
	products.GET("/get-product-by-id/:id", productController.GetProductByID)
	// Mutations behind the auth gate
	protected := products.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/add-product", productController.AddProduct)
	protected.PUT("/edit-product/:id", productController.EditProduct)
	protected.DELETE("/delete-product/:id", productController.DeleteProduct)
	protected.POST("/upload-image-to-product", productController.UploadImage)
	protected.PUT("/update-product-status/:id", productController.UpdateStatus)

	api.GET("/notifications", middleware.AuthRequired(), notificationController.List)
	api.GET("/config/footer", configController.GetFooter)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Reject(ctx, http.StatusNotFound, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
