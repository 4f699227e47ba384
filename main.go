package main

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/purevia/purevia-water-api/config"
	"github.com/purevia/purevia-water-api/controllers"
	"github.com/purevia/purevia-water-api/models"
	"github.com/purevia/purevia-water-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Purevia Water Delivery API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.Customer{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services
	services.InitOTPService()
	services.InitEmailService()
	ledger, err := services.InitLedgerService()
	if err != nil {
		log.Fatalf("Failed to initialize ledger service: %v", err)
	}
	services.InitLifecycleService(services.GetOTPService(), services.GetEmailService(), ledger)

	// Initialize Gin router
	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures all routes on a fresh Gin engine
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// Static storefront pages
	registerPages(router, cfg.StaticDir)

	// Order OTP and placement
	router.POST("/send-otp", controllers.SendOTP)
	router.POST("/order", controllers.PlaceOrder)

	// Delivery confirmation
	router.POST("/send-delivery-otp", controllers.SendDeliveryOTP)
	router.POST("/verify-delivery-otp", controllers.VerifyDeliveryOTP)
	router.POST("/notify-delivery-start", controllers.NotifyDeliveryStart)

	// Cancellation
	router.POST("/send-cancel-otp", controllers.SendCancelOTP)
	router.POST("/verify-cancel-otp", controllers.VerifyCancelOTP)
	router.POST("/delete-order", controllers.DeleteOrder)

	// Manual lifecycle mails (admin-triggered)
	router.POST("/send-delivered-mail", controllers.SendDeliveredMail)
	router.POST("/send-review-mail", controllers.SendReviewMail)
	router.POST("/send-out-delivery-mail", controllers.SendOutDeliveryMail)

	return router
}

// registerPages maps the four fixed storefront paths to their HTML files
func registerPages(router *gin.Engine, staticDir string) {
	pages := map[string]string{
		"/":         "index.html",
		"/cart":     "cart.html",
		"/delivery": "delivery.html",
		"/cancel":   "cancel.html",
	}
	for route, file := range pages {
		path := filepath.Join(staticDir, file)
		router.GET(route, func(c *gin.Context) {
			c.File(path)
		})
	}
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})
}
