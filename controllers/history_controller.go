package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/middleware"
	"github.com/vbranas/tallerpro-api/models"
)

// CreateHistoryEntryRequest represents the request body for a manual
// history entry (legacy records with no backing ticket)
type CreateHistoryEntryRequest struct {
	Vehicle        string     `json:"vehicle"`
	Plate          string     `json:"plate"`
	CustomerName   string     `json:"customer_name"`
	ServiceSummary string     `json:"service_summary" binding:"required"`
	Mechanic       string     `json:"mechanic"`
	OccurredAt     *time.Time `json:"occurred_at"`
}

// historyWithTicket is the consolidated read view joining a history
// entry with its source ticket's repair detail
type historyWithTicket struct {
	models.HistoryEntry
	Diagnosis      string           `json:"diagnosis,omitempty"`
	WorkPerformed  string           `json:"work_performed,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	PartsUsed      models.PartsList `json:"parts_used,omitempty"`
	WarrantyPeriod string           `json:"warranty_period,omitempty"`
	WarrantyTerms  string           `json:"warranty_terms,omitempty"`
}

// ListHistory handles GET /api/history - lists the tenant's vehicle
// service history, newest first
func ListHistory(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var entries []models.HistoryEntry
	if err := db.Where("tenant_id = ?", tenantID).Order("occurred_at DESC").Find(&entries).Error; err != nil {
		respondDatabaseError(c, "Failed to list history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

// ListHistoryWithTicket handles GET /api/history/with-ticket - the
// consolidated view joining each entry to its source ticket by id.
// Manual entries appear without repair detail.
func ListHistoryWithTicket(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var entries []models.HistoryEntry
	if err := db.Where("tenant_id = ?", tenantID).Order("occurred_at DESC").Find(&entries).Error; err != nil {
		respondDatabaseError(c, "Failed to list history")
		return
	}

	// Collect backing tickets in one query
	ticketIDs := make([]uint, 0, len(entries))
	for _, entry := range entries {
		if entry.RepairTicketID != nil {
			ticketIDs = append(ticketIDs, *entry.RepairTicketID)
		}
	}
	ticketsByID := make(map[uint]models.RepairTicket, len(ticketIDs))
	if len(ticketIDs) > 0 {
		var tickets []models.RepairTicket
		if err := db.Where("tenant_id = ? AND id IN ?", tenantID, ticketIDs).Find(&tickets).Error; err != nil {
			respondDatabaseError(c, "Failed to load ticket detail")
			return
		}
		for _, t := range tickets {
			ticketsByID[t.ID] = t
		}
	}

	rows := make([]historyWithTicket, 0, len(entries))
	for _, entry := range entries {
		row := historyWithTicket{HistoryEntry: entry}
		if entry.RepairTicketID != nil {
			if ticket, ok := ticketsByID[*entry.RepairTicketID]; ok {
				row.Diagnosis = ticket.Diagnosis
				row.WorkPerformed = ticket.WorkPerformed
				row.Notes = ticket.Notes
				row.PartsUsed = ticket.PartsUsed
				row.WarrantyPeriod = ticket.WarrantyPeriod
				row.WarrantyTerms = ticket.WarrantyTerms
			}
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// CreateHistoryEntry handles POST /api/history - records a manual
// service event with no backing ticket
func CreateHistoryEntry(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateHistoryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	entry := models.HistoryEntry{
		TenantID:       tenantID,
		Vehicle:        req.Vehicle,
		Plate:          req.Plate,
		CustomerName:   req.CustomerName,
		ServiceSummary: req.ServiceSummary,
		ShopName:       config.GetConfig().ShopName,
		Mechanic:       req.Mechanic,
		OccurredAt:     occurredAt,
	}

	db := config.GetDB()
	if err := db.Create(&entry).Error; err != nil {
		respondDatabaseError(c, "Failed to create history entry")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
	})
}

// DeleteHistoryEntry handles DELETE /api/history/:id
func DeleteHistoryEntry(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var entry models.HistoryEntry
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&entry).Error; err != nil {
		respondNotFound(c, "HISTORY_NOT_FOUND", "History entry not found")
		return
	}

	if err := db.Delete(&entry).Error; err != nil {
		respondDatabaseError(c, "Failed to delete history entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
