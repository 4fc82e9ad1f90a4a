package services

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vbranas/tallerpro-api/models"
)

// PromoteOnAttendance persists a booking's attendance flag and, on the
// attended path, promotes it into a pending repair ticket. Returns the
// ticket id, or nil when the customer did not attend.
//
// Promotion is de-duplicated: if the tenant already has an open ticket
// for the same plate (or the same customer/vehicle pair when no plate
// is recorded), that ticket is returned instead of creating another.
// Marking attendance twice therefore never yields two open tickets.
func PromoteOnAttendance(db *gorm.DB, booking *models.Booking, attended bool, shopName string) (*uint, error) {
	// Attendance is the durable fact; record it before anything else
	booking.Attended = &attended
	if err := db.Save(booking).Error; err != nil {
		return nil, fmt.Errorf("failed to save booking attendance: %w", err)
	}

	if !attended {
		return nil, nil
	}

	if existing, err := findOpenTicket(db, booking); err != nil {
		return nil, err
	} else if existing != nil {
		return &existing.ID, nil
	}

	problem := booking.ServiceType
	if problem == "" {
		problem = booking.Reason
	}
	if problem == "" {
		problem = "Service"
	}

	ticket := models.RepairTicket{
		TenantID:     booking.TenantID,
		CustomerName: booking.CustomerName,
		Vehicle:      booking.Vehicle,
		Plate:        booking.Plate,
		Problem:      problem,
		Status:       models.StatusPending,
		OpenedAt:     time.Now(),
		ShopName:     shopName,
	}
	if err := db.Create(&ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create ticket from booking: %w", err)
	}

	// The directory backfill is advisory; the created ticket is the
	// durable fact and its id is returned regardless
	RunAdvisory("customer backfill", log.Fields{"booking_id": booking.ID, "tenant_id": booking.TenantID}, func() error {
		return ensureCustomerProfile(db, booking)
	})

	return &ticket.ID, nil
}

// findOpenTicket looks for a pending or in_progress ticket already
// covering this booking's vehicle, preferring the plate match
func findOpenTicket(db *gorm.DB, booking *models.Booking) (*models.RepairTicket, error) {
	var ticket models.RepairTicket

	query := db.Where("tenant_id = ? AND status IN ?", booking.TenantID,
		[]string{models.StatusPending, models.StatusInProgress})
	if booking.Plate != "" {
		query = query.Where("plate = ?", booking.Plate)
	} else {
		query = query.Where("customer_name = ? AND vehicle = ?", booking.CustomerName, booking.Vehicle)
	}

	err := query.Order("id").First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search open tickets: %w", err)
	}
	return &ticket, nil
}

// ensureCustomerProfile creates a bare directory profile for the
// booking's customer when none exists yet
func ensureCustomerProfile(db *gorm.DB, booking *models.Booking) error {
	if booking.CustomerName == "" && booking.Plate == "" {
		return nil
	}

	_, err := FindCustomerProfile(db, booking.TenantID, booking.Plate, booking.CustomerName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to resolve customer profile: %w", err)
	}

	now := time.Now()
	profile := models.CustomerProfile{
		TenantID:      booking.TenantID,
		Name:          booking.CustomerName,
		Vehicle:       booking.Vehicle,
		Plate:         booking.Plate,
		CustomerSince: now,
	}
	if err := db.Create(&profile).Error; err != nil {
		return fmt.Errorf("failed to create customer profile: %w", err)
	}
	return nil
}
