package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/models"
)

// SyncHistoryInProgress records a ticket's transition into in_progress
// on the vehicle history. While the ticket stays in_progress the entry
// is updated in place, keyed on the ticket id plus the current flag, so
// repeated saves never create duplicate rows. Once the episode is
// closed (see CloseHistoryEpisode) a later return to in_progress opens
// a fresh entry.
func SyncHistoryInProgress(db *gorm.DB, ticket *models.RepairTicket) error {
	caps := config.GetSchemaCapabilities()
	now := time.Now()

	var entry models.HistoryEntry
	err := db.Where("repair_ticket_id = ? AND tenant_id = ? AND is_current = ?", ticket.ID, ticket.TenantID, true).
		First(&entry).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up history entry: %w", err)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		ticketID := ticket.ID
		entry = models.HistoryEntry{
			TenantID:       ticket.TenantID,
			RepairTicketID: &ticketID,
			IsCurrent:      true,
			OccurredAt:     now,
		}
	}

	entry.Vehicle = ticket.VehicleDescriptor()
	entry.Plate = ticket.Plate
	entry.CustomerName = ticket.CustomerName
	entry.ServiceSummary = ticket.ServiceSummary()
	entry.ShopName = ticket.ShopName
	if caps.HistoryMechanic {
		entry.Mechanic = ticket.Mechanic
	}
	if caps.HistoryCostBreakdown {
		labor, parts, total := ticket.LaborCost, ticket.PartsCost, ticket.TotalCost
		entry.LaborCost = &labor
		entry.PartsCost = &parts
		entry.TotalCost = &total
	}

	if err := db.Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	return nil
}

// CloseHistoryEpisode marks the ticket's current history entry as no
// longer current. Called when the ticket leaves in_progress so that a
// later return to that state is recorded as a new service event.
func CloseHistoryEpisode(db *gorm.DB, ticket *models.RepairTicket) error {
	err := db.Model(&models.HistoryEntry{}).
		Where("repair_ticket_id = ? AND tenant_id = ? AND is_current = ?", ticket.ID, ticket.TenantID, true).
		Update("is_current", false).Error
	if err != nil {
		return fmt.Errorf("failed to close history episode: %w", err)
	}
	return nil
}
