package models

import "time"

// Booking is a scheduled appointment that may be promoted into a repair
// ticket once the customer shows up. Attended is tri-state: nil until
// attendance is marked.
type Booking struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TenantID     uint      `gorm:"not null;index" json:"tenant_id"`
	CustomerName string    `gorm:"not null" json:"customer_name"`
	ServiceType  string    `json:"service_type"`
	Vehicle      string    `json:"vehicle"`
	Plate        string    `gorm:"index" json:"plate"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Time         string    `json:"time"` // HH:MM
	Reason       string    `json:"reason"`
	Attended     *bool     `json:"attended"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
