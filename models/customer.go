package models

import "time"

// CustomerProfile is a directory record kept current from ticket and
// booking activity. It is not authoritative for billing.
type CustomerProfile struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TenantID      uint       `gorm:"not null;index" json:"tenant_id"`
	Name          string     `gorm:"not null" json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Vehicle       string     `json:"vehicle"`
	Plate         string     `gorm:"index" json:"plate"`
	CustomerSince time.Time  `json:"customer_since"`
	LastVisitAt   *time.Time `json:"last_visit_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the CustomerProfile model
func (CustomerProfile) TableName() string {
	return "customer_profiles"
}
