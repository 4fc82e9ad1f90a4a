package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vbranas/tallerpro-api/models"
)

// FindCustomerProfile resolves a directory profile by plate first, then
// by exact name. Returns gorm.ErrRecordNotFound when neither matches.
func FindCustomerProfile(db *gorm.DB, tenantID uint, plate, name string) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile

	if plate != "" {
		err := db.Where("tenant_id = ? AND plate = ?", tenantID, plate).First(&profile).Error
		if err == nil {
			return &profile, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if name != "" {
		err := db.Where("tenant_id = ? AND name = ?", tenantID, name).First(&profile).Error
		if err == nil {
			return &profile, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, gorm.ErrRecordNotFound
}

// UpsertCustomerFromTicket keeps the customer directory current from a
// ticket snapshot. Existing profiles are merged: a field is only
// overwritten when the snapshot carries a non-empty value, so stored
// contact data never regresses. The last visit timestamp is always
// refreshed.
func UpsertCustomerFromTicket(db *gorm.DB, ticket *models.RepairTicket) error {
	if ticket.CustomerName == "" && ticket.Plate == "" {
		// Nothing to key the directory on
		return nil
	}

	now := time.Now()

	profile, err := FindCustomerProfile(db, ticket.TenantID, ticket.Plate, ticket.CustomerName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to resolve customer profile: %w", err)
	}

	if profile == nil {
		created := models.CustomerProfile{
			TenantID:      ticket.TenantID,
			Name:          ticket.CustomerName,
			Phone:         ticket.Phone,
			Email:         ticket.Email,
			Vehicle:       ticket.VehicleDescriptor(),
			Plate:         ticket.Plate,
			CustomerSince: now,
			LastVisitAt:   &now,
		}
		if err := db.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create customer profile: %w", err)
		}
		return nil
	}

	mergeNonEmpty(&profile.Name, ticket.CustomerName)
	mergeNonEmpty(&profile.Phone, ticket.Phone)
	mergeNonEmpty(&profile.Email, ticket.Email)
	mergeNonEmpty(&profile.Vehicle, ticket.VehicleDescriptor())
	mergeNonEmpty(&profile.Plate, ticket.Plate)
	profile.LastVisitAt = &now

	if err := db.Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update customer profile: %w", err)
	}
	return nil
}

// mergeNonEmpty overwrites dst only when the incoming value is non-empty
func mergeNonEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
