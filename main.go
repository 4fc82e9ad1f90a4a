package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/controllers"
	"github.com/vbranas/tallerpro-api/middleware"
	"github.com/vbranas/tallerpro-api/models"
	"github.com/vbranas/tallerpro-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	log.Info("Starting TallerPro API server...")

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.RepairTicket{},
		&models.HistoryEntry{},
		&models.CustomerProfile{},
		&models.Booking{},
		&models.InventoryItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("Database migration completed successfully")

	// Resolve which optional columns this deployment has, once
	caps := config.ResolveSchemaCapabilities(db)
	log.WithFields(log.Fields{
		"history_cost_breakdown": caps.HistoryCostBreakdown,
		"history_mechanic":       caps.HistoryMechanic,
	}).Info("Resolved schema capabilities")

	if _, err := services.InitAuthService(cfg); err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitPhotoService(s3Service)
	} else {
		log.Warn("AWS_S3_BUCKET not set, photo attachments disabled")
	}

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Infof("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires the route table. Everything under the protected
// group requires a valid session bound to a tenant.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.GET("/me", controllers.Me)
		}

		// Customer self-service lookup, deliberately unauthenticated
		api.GET("/public/repairs/:plate", controllers.LookupRepairsByPlate)

		protected := api.Group("")
		protected.Use(middleware.EnsureValidToken(), middleware.RequireTenant())
		{
			protected.GET("/tickets", controllers.ListTickets)
			protected.POST("/tickets", controllers.CreateTicket)
			protected.PUT("/tickets/:id", controllers.UpdateTicket)
			protected.DELETE("/tickets/:id", controllers.DeleteTicket)
			protected.POST("/tickets/:id/photo", controllers.UploadTicketPhoto)
			protected.DELETE("/tickets/:id/photo", controllers.DeleteTicketPhoto)

			protected.GET("/bookings", controllers.ListBookings)
			protected.POST("/bookings", controllers.CreateBooking)
			protected.PUT("/bookings/:id/attendance", controllers.MarkAttendance)
			protected.DELETE("/bookings/:id", controllers.DeleteBooking)

			protected.GET("/customers", controllers.ListCustomers)
			protected.POST("/customers", controllers.CreateCustomer)
			protected.PUT("/customers/:id", controllers.UpdateCustomer)
			protected.DELETE("/customers/:id", controllers.DeleteCustomer)

			protected.GET("/history", controllers.ListHistory)
			protected.GET("/history/with-ticket", controllers.ListHistoryWithTicket)
			protected.POST("/history", controllers.CreateHistoryEntry)
			protected.DELETE("/history/:id", controllers.DeleteHistoryEntry)

			protected.GET("/inventory", controllers.ListInventory)
			protected.POST("/inventory", controllers.CreateInventoryItem)
			protected.PUT("/inventory/:id", controllers.UpdateInventoryItem)
			protected.DELETE("/inventory/:id", controllers.DeleteInventoryItem)
			protected.POST("/inventory/adjust", controllers.AdjustStock)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "TallerPro API is running",
	})
}
