package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/models"
)

// publicRepairView is the customer self-service projection of a repair.
// It deliberately carries no contact PII: no names, phones or emails.
type publicRepairView struct {
	Vehicle       string           `json:"vehicle"`
	Plate         string           `json:"plate"`
	Status        string           `json:"status"`
	Diagnosis     string           `json:"diagnosis"`
	WorkPerformed string           `json:"work_performed"`
	PartsUsed     models.PartsList `json:"parts_used"`
	LaborCost     float64          `json:"labor_cost"`
	PartsCost     float64          `json:"parts_cost"`
	TotalCost     float64          `json:"total_cost"`
	ShopName      string           `json:"shop_name"`
	Mechanic      string           `json:"mechanic"`
}

// LookupRepairsByPlate handles GET /api/public/repairs/:plate - the
// unauthenticated, tenant-agnostic lookup customers use to follow their
// own repair by plate number
func LookupRepairsByPlate(c *gin.Context) {
	plate := c.Param("plate")
	if plate == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Plate is required",
			},
		})
		return
	}

	db := config.GetDB()
	var tickets []models.RepairTicket
	if err := db.Where("plate = ?", plate).Order("opened_at DESC").Find(&tickets).Error; err != nil {
		respondDatabaseError(c, "Failed to look up repairs")
		return
	}

	views := make([]publicRepairView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, publicRepairView{
			Vehicle:       t.VehicleDescriptor(),
			Plate:         t.Plate,
			Status:        models.NormalizeStatus(t.Status),
			Diagnosis:     t.Diagnosis,
			WorkPerformed: t.WorkPerformed,
			PartsUsed:     t.PartsUsed,
			LaborCost:     t.LaborCost,
			PartsCost:     t.PartsCost,
			TotalCost:     t.TotalCost,
			ShopName:      t.ShopName,
			Mechanic:      t.Mechanic,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}
