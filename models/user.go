package models

import "time"

// User represents a staff or client account. TenantID binds the account
// to one shop; every data row the user touches is scoped to it.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:'client'" json:"role"` // "admin", "staff" or "client"
	Provider     string    `gorm:"not null;default:'local'" json:"provider"`
	TenantID     uint      `gorm:"index" json:"tenant_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
