package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

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

	config.SetSchemaCapabilities(config.SchemaCapabilities{
		HistoryCostBreakdown: true,
		HistoryMechanic:      true,
	})
	return db
}

func newInProgressTicket(db *gorm.DB, tenantID uint, mutate func(*models.RepairTicket)) models.RepairTicket {
	ticket := models.RepairTicket{
		TenantID:     tenantID,
		CustomerName: "Maria Gonzalez",
		Vehicle:      "Toyota Corolla 2018",
		Plate:        "AB-123-CD",
		Phone:        "+56 9 1234 5678",
		Email:        "maria@example.com",
		Problem:      "Engine rattle on cold start",
		Status:       models.StatusInProgress,
		LaborCost:    30000,
		Mechanic:     "Pedro",
		OpenedAt:     time.Now(),
		ShopName:     "TallerPro",
	}
	if mutate != nil {
		mutate(&ticket)
	}
	db.Create(&ticket)
	return ticket
}
