package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/middleware"
	"github.com/vbranas/tallerpro-api/models"
)

// CreateCustomerRequest represents the request body for creating a profile
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Vehicle string `json:"vehicle"`
	Plate   string `json:"plate"`
}

// UpdateCustomerRequest is a partial update with merge semantics:
// absent or empty fields never erase stored contact data
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Vehicle *string `json:"vehicle"`
	Plate   *string `json:"plate"`
}

// ListCustomers handles GET /api/customers - lists the tenant's directory
func ListCustomers(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var customers []models.CustomerProfile
	if err := db.Where("tenant_id = ?", tenantID).Order("name").Find(&customers).Error; err != nil {
		respondDatabaseError(c, "Failed to list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}

// CreateCustomer handles POST /api/customers
func CreateCustomer(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	customer := models.CustomerProfile{
		TenantID:      tenantID,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Vehicle:       req.Vehicle,
		Plate:         req.Plate,
		CustomerSince: time.Now(),
	}

	db := config.GetDB()
	if err := db.Create(&customer).Error; err != nil {
		respondDatabaseError(c, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    customer,
	})
}

// UpdateCustomer handles PUT /api/customers/:id - merge-updates a
// profile. Empty incoming fields leave stored values untouched so the
// directory never loses contact information.
func UpdateCustomer(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var customer models.CustomerProfile
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&customer).Error; err != nil {
		respondNotFound(c, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}

	mergeString(&customer.Name, req.Name)
	mergeString(&customer.Phone, req.Phone)
	mergeString(&customer.Email, req.Email)
	mergeString(&customer.Vehicle, req.Vehicle)
	mergeString(&customer.Plate, req.Plate)

	if err := db.Save(&customer).Error; err != nil {
		respondDatabaseError(c, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// DeleteCustomer handles DELETE /api/customers/:id
func DeleteCustomer(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var customer models.CustomerProfile
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&customer).Error; err != nil {
		respondNotFound(c, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}

	if err := db.Delete(&customer).Error; err != nil {
		respondDatabaseError(c, "Failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// mergeString overwrites dst only when the patch carries a non-empty value
func mergeString(dst *string, value *string) {
	if value != nil && *value != "" {
		*dst = *value
	}
}
