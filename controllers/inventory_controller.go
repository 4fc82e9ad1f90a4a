package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/middleware"
	"github.com/vbranas/tallerpro-api/models"
)

var errItemNotFound = errors.New("inventory item not found")

// CreateInventoryItemRequest represents the request body for creating an item
type CreateInventoryItemRequest struct {
	Name             string  `json:"name" binding:"required"`
	Category         string  `json:"category"`
	Unit             string  `json:"unit"`
	StockQty         int     `json:"stock_qty"`
	ReorderThreshold int     `json:"reorder_threshold"`
	UnitCost         float64 `json:"unit_cost"`
	SalePrice        float64 `json:"sale_price"`
}

// UpdateInventoryItemRequest is a partial update for an item
type UpdateInventoryItemRequest struct {
	Name             *string  `json:"name"`
	Category         *string  `json:"category"`
	Unit             *string  `json:"unit"`
	StockQty         *int     `json:"stock_qty"`
	ReorderThreshold *int     `json:"reorder_threshold"`
	UnitCost         *float64 `json:"unit_cost"`
	SalePrice        *float64 `json:"sale_price"`
}

// AdjustStockRequest represents the request body for a batch stock adjustment
type AdjustStockRequest struct {
	Items []StockAdjustment `json:"items" binding:"required,min=1,dive"`
}

// StockAdjustment is one line of a batch adjustment
type StockAdjustment struct {
	ItemID uint `json:"item_id" binding:"required"`
	Qty    int  `json:"qty" binding:"required,gt=0"`
}

// ListInventory handles GET /api/inventory - lists the tenant's stock
// with the status recomputed on the way out
func ListInventory(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var items []models.InventoryItem
	if err := db.Where("tenant_id = ?", tenantID).Order("name").Find(&items).Error; err != nil {
		respondDatabaseError(c, "Failed to list inventory")
		return
	}

	// Status is a pure function of the counters, never trusted from storage
	for i := range items {
		items[i].Status = items[i].ComputeStatus()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// CreateInventoryItem handles POST /api/inventory
func CreateInventoryItem(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	item := models.InventoryItem{
		TenantID:         tenantID,
		Name:             req.Name,
		Category:         req.Category,
		Unit:             req.Unit,
		StockQty:         req.StockQty,
		ReorderThreshold: req.ReorderThreshold,
		UnitCost:         req.UnitCost,
		SalePrice:        req.SalePrice,
	}

	db := config.GetDB()
	if err := db.Create(&item).Error; err != nil {
		respondDatabaseError(c, "Failed to create inventory item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// UpdateInventoryItem handles PUT /api/inventory/:id
func UpdateInventoryItem(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var item models.InventoryItem
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&item).Error; err != nil {
		respondNotFound(c, "ITEM_NOT_FOUND", "Inventory item not found")
		return
	}

	applyString(&item.Name, req.Name)
	applyString(&item.Category, req.Category)
	applyString(&item.Unit, req.Unit)
	if req.StockQty != nil {
		item.StockQty = *req.StockQty
	}
	if req.ReorderThreshold != nil {
		item.ReorderThreshold = *req.ReorderThreshold
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
	}
	if req.SalePrice != nil {
		item.SalePrice = *req.SalePrice
	}

	if err := db.Save(&item).Error; err != nil {
		respondDatabaseError(c, "Failed to update inventory item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// DeleteInventoryItem handles DELETE /api/inventory/:id
func DeleteInventoryItem(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var item models.InventoryItem
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&item).Error; err != nil {
		respondNotFound(c, "ITEM_NOT_FOUND", "Inventory item not found")
		return
	}

	if err := db.Delete(&item).Error; err != nil {
		respondDatabaseError(c, "Failed to delete inventory item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// AdjustStock handles POST /api/inventory/adjust - decrements stock for
// parts consumed by a repair as a single all-or-nothing batch. Stock
// never goes below zero. If any referenced item does not exist (or
// belongs to another tenant) the whole batch is rolled back.
func AdjustStock(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	txErr := db.Transaction(func(tx *gorm.DB) error {
		for _, line := range req.Items {
			var item models.InventoryItem
			if err := tx.Where("id = ? AND tenant_id = ?", line.ItemID, tenantID).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errItemNotFound
				}
				return err
			}

			item.StockQty = max(0, item.StockQty-line.Qty)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if errors.Is(txErr, errItemNotFound) {
		respondNotFound(c, "ITEM_NOT_FOUND", "One or more inventory items do not exist; nothing was adjusted")
		return
	}
	if txErr != nil {
		respondDatabaseError(c, "Failed to adjust inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
