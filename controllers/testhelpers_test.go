package controllers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/models"
	"github.com/vbranas/tallerpro-api/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(
		&models.User{},
		&models.RepairTicket{},
		&models.HistoryEntry{},
		&models.CustomerProfile{},
		&models.Booking{},
		&models.InventoryItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetSchemaCapabilities(config.SchemaCapabilities{
		HistoryCostBreakdown: true,
		HistoryMechanic:      true,
	})
	return db
}

func setupTestConfig(adminEmails ...string) {
	config.SetConfig(&config.Config{
		JWTSecret:   "test-secret",
		JWTExpiry:   "1h",
		AdminEmails: adminEmails,
		ShopName:    "TallerPro",
		GoEnv:       "test",
	})
	if _, err := services.InitAuthService(config.GetConfig()); err != nil {
		panic(err)
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware seeds the gin context exactly as EnsureValidToken
// does for a session bound to the given tenant
func mockAuthMiddleware(userID, tenantID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &services.TokenClaims{
			UserID:   userID,
			Email:    "staff@example.com",
			Name:     "Test Staff",
			Role:     role,
			TenantID: tenantID,
		}
		c.Set("claims", claims)
		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Next()
	}
}
