package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/middleware"
	"github.com/vbranas/tallerpro-api/models"
	"github.com/vbranas/tallerpro-api/services"
)

// CreateTicketRequest represents the request body for creating a repair ticket
type CreateTicketRequest struct {
	CustomerName   string           `json:"customer_name"`
	Vehicle        string           `json:"vehicle"`
	Make           string           `json:"make"`
	Model          string           `json:"model"`
	Year           string           `json:"year"`
	Plate          string           `json:"plate"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Mileage        string           `json:"mileage"`
	Problem        string           `json:"problem"`
	Diagnosis      string           `json:"diagnosis"`
	WorkPerformed  string           `json:"work_performed"`
	Notes          string           `json:"notes"`
	PartsUsed      models.PartsList `json:"parts_used"`
	Status         string           `json:"status"`
	LaborCost      float64          `json:"labor_cost"`
	OpenedAt       *time.Time       `json:"opened_at"`
	WarrantyPeriod string           `json:"warranty_period"`
	WarrantyTerms  string           `json:"warranty_terms"`
	Mechanic       string           `json:"mechanic"`
}

// UpdateTicketRequest is a strict partial update: absent fields leave
// the stored value unchanged, they are never reset to a default
type UpdateTicketRequest struct {
	CustomerName   *string           `json:"customer_name"`
	Vehicle        *string           `json:"vehicle"`
	Make           *string           `json:"make"`
	Model          *string           `json:"model"`
	Year           *string           `json:"year"`
	Plate          *string           `json:"plate"`
	Phone          *string           `json:"phone"`
	Email          *string           `json:"email"`
	Mileage        *string           `json:"mileage"`
	Problem        *string           `json:"problem"`
	Diagnosis      *string           `json:"diagnosis"`
	WorkPerformed  *string           `json:"work_performed"`
	Notes          *string           `json:"notes"`
	PartsUsed      *models.PartsList `json:"parts_used"`
	Status         *string           `json:"status"`
	LaborCost      *float64          `json:"labor_cost"`
	WarrantyPeriod *string           `json:"warranty_period"`
	WarrantyTerms  *string           `json:"warranty_terms"`
	Mechanic       *string           `json:"mechanic"`
}

// ListTickets handles GET /api/tickets - lists the tenant's tickets,
// optionally filtered by plate and opening date
func ListTickets(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	query := db.Where("tenant_id = ?", tenantID)
	if plate := c.Query("plate"); plate != "" {
		query = query.Where("plate = ?", plate)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("DATE(opened_at) = DATE(?)", date)
	}

	var tickets []models.RepairTicket
	if err := query.Order("opened_at DESC").Find(&tickets).Error; err != nil {
		respondDatabaseError(c, "Failed to list tickets")
		return
	}

	for i := range tickets {
		attachPhotoURL(&tickets[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tickets,
	})
}

// CreateTicket handles POST /api/tickets - creates a repair ticket by
// manual staff entry
func CreateTicket(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	openedAt := time.Now()
	if req.OpenedAt != nil {
		openedAt = *req.OpenedAt
	}

	ticket := models.RepairTicket{
		TenantID:       tenantID,
		CustomerName:   req.CustomerName,
		Vehicle:        req.Vehicle,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Plate:          req.Plate,
		Phone:          req.Phone,
		Email:          req.Email,
		Mileage:        req.Mileage,
		Problem:        req.Problem,
		Diagnosis:      req.Diagnosis,
		WorkPerformed:  req.WorkPerformed,
		Notes:          req.Notes,
		PartsUsed:      req.PartsUsed,
		Status:         models.NormalizeStatus(req.Status),
		LaborCost:      req.LaborCost,
		OpenedAt:       openedAt,
		WarrantyPeriod: req.WarrantyPeriod,
		WarrantyTerms:  req.WarrantyTerms,
		Mechanic:       req.Mechanic,
		ShopName:       config.GetConfig().ShopName,
	}

	db := config.GetDB()
	if err := db.Create(&ticket).Error; err != nil {
		respondDatabaseError(c, "Failed to create ticket")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"id": ticket.ID},
	})
}

// UpdateTicket handles PUT /api/tickets/:id - applies a partial update
// and drives the status state machine.
//
// This is the single control point where a repair's "work has started"
// fact fans out: when the normalized status moves into in_progress the
// vehicle history and the customer directory are synchronized with a
// snapshot of the ticket. Those writes are advisory; the ticket update
// itself is the durable fact and succeeds even if they fail.
func UpdateTicket(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var ticket models.RepairTicket
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&ticket).Error; err != nil {
		respondNotFound(c, "TICKET_NOT_FOUND", "Ticket not found")
		return
	}

	previousStatus := models.NormalizeStatus(ticket.Status)

	applyTicketPatch(&ticket, &req)

	newStatus := previousStatus
	if req.Status != nil {
		newStatus = models.NormalizeStatus(*req.Status)
	}
	ticket.Status = newStatus

	// Primary write: derived costs are recomputed in BeforeSave
	if err := db.Save(&ticket).Error; err != nil {
		respondDatabaseError(c, "Failed to update ticket")
		return
	}

	fields := log.Fields{"ticket_id": ticket.ID, "tenant_id": ticket.TenantID}
	if previousStatus != models.StatusInProgress && newStatus == models.StatusInProgress {
		// Work has started: fan out to the derived records, in order
		services.RunAdvisory("history upsert", fields, func() error {
			return services.SyncHistoryInProgress(db, &ticket)
		})
		services.RunAdvisory("customer upsert", fields, func() error {
			return services.UpsertCustomerFromTicket(db, &ticket)
		})
	} else if previousStatus == models.StatusInProgress && newStatus != models.StatusInProgress {
		// The in_progress episode ended; a later return opens a new one
		services.RunAdvisory("history episode close", fields, func() error {
			return services.CloseHistoryEpisode(db, &ticket)
		})
	}

	// Callers re-fetch when they need the updated record
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// DeleteTicket handles DELETE /api/tickets/:id - permanent removal by
// explicit staff action
func DeleteTicket(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var ticket models.RepairTicket
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&ticket).Error; err != nil {
		respondNotFound(c, "TICKET_NOT_FOUND", "Ticket not found")
		return
	}

	if err := db.Delete(&ticket).Error; err != nil {
		respondDatabaseError(c, "Failed to delete ticket")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// applyTicketPatch copies only the fields present in the patch onto the
// stored ticket
func applyTicketPatch(ticket *models.RepairTicket, req *UpdateTicketRequest) {
	applyString(&ticket.CustomerName, req.CustomerName)
	applyString(&ticket.Vehicle, req.Vehicle)
	applyString(&ticket.Make, req.Make)
	applyString(&ticket.Model, req.Model)
	applyString(&ticket.Year, req.Year)
	applyString(&ticket.Plate, req.Plate)
	applyString(&ticket.Phone, req.Phone)
	applyString(&ticket.Email, req.Email)
	applyString(&ticket.Mileage, req.Mileage)
	applyString(&ticket.Problem, req.Problem)
	applyString(&ticket.Diagnosis, req.Diagnosis)
	applyString(&ticket.WorkPerformed, req.WorkPerformed)
	applyString(&ticket.Notes, req.Notes)
	applyString(&ticket.WarrantyPeriod, req.WarrantyPeriod)
	applyString(&ticket.WarrantyTerms, req.WarrantyTerms)
	applyString(&ticket.Mechanic, req.Mechanic)
	if req.PartsUsed != nil {
		ticket.PartsUsed = *req.PartsUsed
	}
	if req.LaborCost != nil {
		ticket.LaborCost = *req.LaborCost
	}
}

func applyString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

// attachPhotoURL fills in the presigned photo URL when the ticket has
// an attachment and the photo service is configured
func attachPhotoURL(ticket *models.RepairTicket) {
	if ticket.PhotoS3Key == nil || *ticket.PhotoS3Key == "" {
		return
	}
	photoService := services.GetPhotoService()
	if photoService == nil {
		return
	}
	url, err := photoService.GetPhotoURL(*ticket.PhotoS3Key)
	if err != nil {
		log.WithError(err).WithField("ticket_id", ticket.ID).Warn("failed to presign photo URL")
		return
	}
	ticket.PhotoURL = &url
}
