package models

import "time"

// HistoryEntry is one vehicle-service event, derived from a ticket's
// in_progress episode or entered manually for legacy records.
//
// At most one entry per ticket has IsCurrent set: it is updated in place
// while the ticket stays in_progress and closed when the ticket leaves
// that state. A later return to in_progress opens a fresh entry.
type HistoryEntry struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TenantID       uint      `gorm:"not null;index" json:"tenant_id"`
	RepairTicketID *uint     `gorm:"index" json:"repair_ticket_id,omitempty"` // nil for manual/legacy entries
	IsCurrent      bool      `gorm:"not null;default:false" json:"is_current"`
	Vehicle        string    `json:"vehicle"`
	Plate          string    `gorm:"index" json:"plate"`
	CustomerName   string    `json:"customer_name"`
	ServiceSummary string    `json:"service_summary"`
	ShopName       string    `json:"shop_name"`
	Mechanic       string    `json:"mechanic"`
	LaborCost      *float64  `json:"labor_cost,omitempty"` // cost snapshot frozen at the transition
	PartsCost      *float64  `json:"parts_cost,omitempty"`
	TotalCost      *float64  `json:"total_cost,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the HistoryEntry model
func (HistoryEntry) TableName() string {
	return "history_entries"
}
