package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/middleware"
	"github.com/vbranas/tallerpro-api/models"
	"github.com/vbranas/tallerpro-api/services"
)

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	ServiceType  string `json:"service_type"`
	Vehicle      string `json:"vehicle"`
	Plate        string `json:"plate"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	Reason       string `json:"reason"`
}

// MarkAttendanceRequest represents the request body for marking attendance
type MarkAttendanceRequest struct {
	Attended *bool `json:"attended" binding:"required"`
}

// ListBookings handles GET /api/bookings - lists the tenant's bookings
// ordered by date and time
func ListBookings(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var bookings []models.Booking
	if err := db.Where("tenant_id = ?", tenantID).Order("date, time").Find(&bookings).Error; err != nil {
		respondDatabaseError(c, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
	})
}

// CreateBooking handles POST /api/bookings - creates a scheduled appointment
func CreateBooking(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	booking := models.Booking{
		TenantID:     tenantID,
		CustomerName: req.CustomerName,
		ServiceType:  req.ServiceType,
		Vehicle:      req.Vehicle,
		Plate:        req.Plate,
		Date:         req.Date,
		Time:         req.Time,
		Reason:       req.Reason,
	}

	db := config.GetDB()
	if err := db.Create(&booking).Error; err != nil {
		respondDatabaseError(c, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    booking,
	})
}

// MarkAttendance handles PUT /api/bookings/:id/attendance - records
// whether the customer showed up and, on the attended path, promotes
// the booking into a repair ticket (or returns the already-open one)
func MarkAttendance(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var booking models.Booking
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&booking).Error; err != nil {
		respondNotFound(c, "BOOKING_NOT_FOUND", "Booking not found")
		return
	}

	ticketID, err := services.PromoteOnAttendance(db, &booking, *req.Attended, config.GetConfig().ShopName)
	if err != nil {
		respondDatabaseError(c, "Failed to confirm attendance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"ticket_id": ticketID},
	})
}

// DeleteBooking handles DELETE /api/bookings/:id
func DeleteBooking(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var booking models.Booking
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&booking).Error; err != nil {
		respondNotFound(c, "BOOKING_NOT_FOUND", "Booking not found")
		return
	}

	if err := db.Delete(&booking).Error; err != nil {
		respondDatabaseError(c, "Failed to delete booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
