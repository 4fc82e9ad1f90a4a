package models

import (
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// PartLine is one consumed part on a repair ticket
type PartLine struct {
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	UnitPrice   float64 `json:"unit_price"`
}

// LineTotal returns quantity * unit price for the line
func (p PartLine) LineTotal() float64 {
	return float64(p.Quantity) * p.UnitPrice
}

// PartsList is the ordered list of parts consumed by a repair,
// persisted as a JSON column
type PartsList []PartLine

// Total sums the line totals of every part in the list
func (pl PartsList) Total() float64 {
	return lo.SumBy(pl, func(p PartLine) float64 { return p.LineTotal() })
}

// RepairTicket represents one repair job from intake to completion.
// Tickets are hard-deleted on explicit staff action, so there is no
// soft-delete column.
type RepairTicket struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TenantID       uint      `gorm:"not null;index" json:"tenant_id"`
	CustomerName   string    `json:"customer_name"`
	Vehicle        string    `json:"vehicle"` // free-text descriptor when make/model/year are unknown
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           string    `json:"year"`
	Plate          string    `gorm:"index" json:"plate"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Mileage        string    `json:"mileage"`
	Problem        string    `json:"problem"`
	Diagnosis      string    `json:"diagnosis"`
	WorkPerformed  string    `json:"work_performed"`
	Notes          string    `json:"notes"`
	PartsUsed      PartsList `gorm:"serializer:json" json:"parts_used"`
	Status         string    `gorm:"not null;default:'pending'" json:"status"`
	LaborCost      float64   `json:"labor_cost"`
	PartsCost      float64   `json:"parts_cost"` // derived from PartsUsed
	TotalCost      float64   `json:"total_cost"` // derived, labor + parts
	OpenedAt       time.Time `json:"opened_at"`
	WarrantyPeriod string    `json:"warranty_period"`
	WarrantyTerms  string    `json:"warranty_terms"`
	Mechanic       string    `json:"mechanic"`
	ShopName       string    `json:"shop_name"`
	PhotoS3Key     *string   `json:"photo_s3_key,omitempty"`
	PhotoURL       *string   `gorm:"-" json:"photo_url,omitempty"` // computed, presigned URL
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the RepairTicket model
func (RepairTicket) TableName() string {
	return "repair_tickets"
}

// BeforeSave recomputes the derived cost columns so the stored totals
// are never the sole source of truth.
func (t *RepairTicket) BeforeSave(tx *gorm.DB) error {
	t.PartsCost = t.PartsUsed.Total()
	t.TotalCost = t.LaborCost + t.PartsCost
	return nil
}

// VehicleDescriptor returns the best available description of the
// vehicle: the free-text field, falling back to make/model/year.
func (t *RepairTicket) VehicleDescriptor() string {
	if t.Vehicle != "" {
		return t.Vehicle
	}
	desc := t.Make
	if t.Model != "" {
		if desc != "" {
			desc += " "
		}
		desc += t.Model
	}
	if t.Year != "" {
		if desc != "" {
			desc += " "
		}
		desc += t.Year
	}
	return desc
}

// ServiceSummary returns the customer-facing summary of the repair:
// the problem, falling back to diagnosis, then work performed.
func (t *RepairTicket) ServiceSummary() string {
	if t.Problem != "" {
		return t.Problem
	}
	if t.Diagnosis != "" {
		return t.Diagnosis
	}
	if t.WorkPerformed != "" {
		return t.WorkPerformed
	}
	return "Service"
}
