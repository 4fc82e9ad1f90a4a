package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/vbranas/tallerpro-api/models"
)

func seedTicket(db *gorm.DB, tenantID uint, mutate func(*models.RepairTicket)) models.RepairTicket {
	ticket := models.RepairTicket{
		TenantID:     tenantID,
		CustomerName: "Maria Gonzalez",
		Vehicle:      "Toyota Corolla 2018",
		Plate:        "AB-123-CD",
		Phone:        "+56 9 1234 5678",
		Email:        "maria@example.com",
		Problem:      "Engine rattle on cold start",
		Status:       models.StatusPending,
		LaborCost:    20000,
		OpenedAt:     time.Now(),
		ShopName:     "TallerPro",
	}
	if mutate != nil {
		mutate(&ticket)
	}
	db.Create(&ticket)
	return ticket
}

func putTicket(router http.Handler, id uint, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("/tickets/%d", id), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUpdateTicket_TotalCostDerivation(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

	w := putTicket(router, ticket.ID, map[string]interface{}{
		"labor_cost": 50000,
		"parts_used": []map[string]interface{}{
			{"quantity": 2, "description": "Brake pads", "brand": "Bosch", "unit_price": 3000},
			{"quantity": 1, "description": "Oil filter", "brand": "Mann", "unit_price": 1500},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.RepairTicket
	db.First(&stored, ticket.ID)
	assert.Equal(t, float64(7500), stored.PartsCost)
	assert.Equal(t, float64(57500), stored.TotalCost)
}

func TestUpdateTicket_PartialUpdateLeavesOmittedFields(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	ticket := seedTicket(db, 1, func(tk *models.RepairTicket) {
		tk.Diagnosis = "Loose heat shield"
		tk.Mechanic = "Pedro"
	})

	router := setupTestRouter()
	router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

	w := putTicket(router, ticket.ID, map[string]interface{}{
		"work_performed": "Re-torqued heat shield bolts",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.RepairTicket
	db.First(&stored, ticket.ID)
	assert.Equal(t, "Loose heat shield", stored.Diagnosis)
	assert.Equal(t, "Pedro", stored.Mechanic)
	assert.Equal(t, "Maria Gonzalez", stored.CustomerName)
	assert.Equal(t, "Re-torqued heat shield bolts", stored.WorkPerformed)
}

func TestUpdateTicket_StatusNormalization(t *testing.T) {
	tests := []struct {
		submitted string
		canonical string
	}{
		{"pending", models.StatusPending},
		{"pendiente", models.StatusPending},
		{"open", models.StatusPending},
		{"progress", models.StatusInProgress},
		{"en progreso", models.StatusInProgress},
		{"In Progress", models.StatusInProgress},
		{"completado", models.StatusCompleted},
		{"completed", models.StatusCompleted},
		{"cancelado", models.StatusCancelled},
		{"something else entirely", models.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.submitted, func(t *testing.T) {
			db := setupTestDB(t)
			setupTestConfig()
			ticket := seedTicket(db, 1, nil)

			router := setupTestRouter()
			router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

			w := putTicket(router, ticket.ID, map[string]interface{}{"status": tt.submitted})
			assert.Equal(t, http.StatusOK, w.Code)

			var stored models.RepairTicket
			db.First(&stored, ticket.ID)
			assert.Equal(t, tt.canonical, stored.Status)
		})
	}
}

func TestUpdateTicket_HistoryUpsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

	// First transition into in_progress writes one history entry
	w := putTicket(router, ticket.ID, map[string]interface{}{"status": "in_progress"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Re-saving an already in_progress ticket must not duplicate it
	w = putTicket(router, ticket.ID, map[string]interface{}{
		"status":    "in_progress",
		"diagnosis": "Worn serpentine belt",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.HistoryEntry{}).Where("repair_ticket_id = ?", ticket.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Fields reflect the latest call
	var entry models.HistoryEntry
	db.Where("repair_ticket_id = ?", ticket.ID).First(&entry)
	assert.Equal(t, "Maria Gonzalez", entry.CustomerName)
	assert.Equal(t, "AB-123-CD", entry.Plate)
	assert.Equal(t, "Engine rattle on cold start", entry.ServiceSummary)
	assert.True(t, entry.IsCurrent)
}

func TestUpdateTicket_ReturnToInProgressOpensNewEpisode(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

	putTicket(router, ticket.ID, map[string]interface{}{"status": "in_progress"})
	putTicket(router, ticket.ID, map[string]interface{}{"status": "completed"})
	putTicket(router, ticket.ID, map[string]interface{}{"status": "in_progress"})

	var count int64
	db.Model(&models.HistoryEntry{}).Where("repair_ticket_id = ?", ticket.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	var currentCount int64
	db.Model(&models.HistoryEntry{}).
		Where("repair_ticket_id = ? AND is_current = ?", ticket.ID, true).Count(&currentCount)
	assert.Equal(t, int64(1), currentCount)
}

func TestUpdateTicket_NoHistoryWithoutInProgress(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

	// pending -> completed skips the in_progress trigger entirely
	w := putTicket(router, ticket.ID, map[string]interface{}{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.HistoryEntry{}).Where("repair_ticket_id = ?", ticket.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateTicket_SyncsCustomerDirectory(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

	w := putTicket(router, ticket.ID, map[string]interface{}{"status": "in_progress"})
	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.CustomerProfile
	err := db.Where("tenant_id = ? AND plate = ?", 1, "AB-123-CD").First(&profile).Error
	assert.NoError(t, err)
	assert.Equal(t, "Maria Gonzalez", profile.Name)
	assert.Equal(t, "+56 9 1234 5678", profile.Phone)
	assert.NotNil(t, profile.LastVisitAt)
}

func TestUpdateTicket_CrossTenantIsInvisible(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	// Ticket owned by tenant 2, caller bound to tenant 1
	ticket := seedTicket(db, 2, nil)

	router := setupTestRouter()
	router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

	w := putTicket(router, ticket.ID, map[string]interface{}{"status": "in_progress"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "TICKET_NOT_FOUND", errorData["code"])

	// Tenant 2's row was not mutated
	var stored models.RepairTicket
	db.First(&stored, ticket.ID)
	assert.Equal(t, models.StatusPending, stored.Status)

	var count int64
	db.Model(&models.HistoryEntry{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateTicket_NotFound(t *testing.T) {
	setupTestDB(t)
	setupTestConfig()

	router := setupTestRouter()
	router.PUT("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), UpdateTicket)

	w := putTicket(router, 9999, map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTicket_IsPermanentAndTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	mine := seedTicket(db, 1, nil)
	theirs := seedTicket(db, 2, nil)

	router := setupTestRouter()
	router.DELETE("/tickets/:id", mockAuthMiddleware(1, 1, "staff"), DeleteTicket)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/tickets/%d", theirs.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req, _ = http.NewRequest(http.MethodDelete, fmt.Sprintf("/tickets/%d", mine.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.RepairTicket{}).Count(&count)
	assert.Equal(t, int64(1), count) // only tenant 2's ticket remains
}

func TestListTickets_FiltersByTenantAndPlate(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	seedTicket(db, 1, nil)
	seedTicket(db, 1, func(tk *models.RepairTicket) { tk.Plate = "ZZ-999-XX" })
	seedTicket(db, 2, nil) // other tenant, same plate as the first

	router := setupTestRouter()
	router.GET("/tickets", mockAuthMiddleware(1, 1, "staff"), ListTickets)

	req, _ := http.NewRequest(http.MethodGet, "/tickets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)

	req, _ = http.NewRequest(http.MethodGet, "/tickets?plate=ZZ-999-XX", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	json.Unmarshal(w.Body.Bytes(), &response)
	data = response["data"].([]interface{})
	assert.Len(t, data, 1)
}

func TestCreateTicket_DefaultsAndNormalization(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()

	router := setupTestRouter()
	router.POST("/tickets", mockAuthMiddleware(1, 1, "staff"), CreateTicket)

	body, _ := json.Marshal(map[string]interface{}{
		"customer_name": "Jorge Silva",
		"vehicle":       "Ford Ranger 2020",
		"status":        "open",
	})
	req, _ := http.NewRequest(http.MethodPost, "/tickets", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var stored models.RepairTicket
	db.Where("tenant_id = ?", 1).First(&stored)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, "TallerPro", stored.ShopName)
	assert.False(t, stored.OpenedAt.IsZero())
}
