package models

import (
	"time"

	"gorm.io/gorm"
)

// Inventory stock statuses, always derived from the quantity and the
// reorder threshold.
const (
	StockCritical  = "critical"
	StockAvailable = "available"
)

// InventoryItem is a stocked part or consumable
type InventoryItem struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TenantID         uint      `gorm:"not null;index" json:"tenant_id"`
	Name             string    `gorm:"not null" json:"name"`
	Category         string    `json:"category"`
	Unit             string    `json:"unit"`
	StockQty         int       `json:"stock_qty"`
	ReorderThreshold int       `json:"reorder_threshold"`
	UnitCost         float64   `json:"unit_cost"`
	SalePrice        float64   `json:"sale_price"`
	Status           string    `json:"status"` // derived, see ComputeStatus
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// ComputeStatus derives the stock status from quantity and threshold
func (i *InventoryItem) ComputeStatus() string {
	if i.StockQty <= i.ReorderThreshold {
		return StockCritical
	}
	return StockAvailable
}

// BeforeSave keeps the stored status in sync with the stock counters
func (i *InventoryItem) BeforeSave(tx *gorm.DB) error {
	i.Status = i.ComputeStatus()
	return nil
}
