package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/middleware"
	"github.com/vbranas/tallerpro-api/models"
	"github.com/vbranas/tallerpro-api/services"
	"github.com/vbranas/tallerpro-api/utils"
)

// UploadTicketPhoto handles POST /api/tickets/:id/photo - attaches a
// PNG photo (vehicle state, damage, finished work) to a repair ticket.
// A new upload replaces the previous attachment.
func UploadTicketPhoto(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	db := config.GetDB()
	var ticket models.RepairTicket
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&ticket).Error; err != nil {
		respondNotFound(c, "TICKET_NOT_FOUND", "Ticket not found")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A photo file is required",
			},
		})
		return
	}

	photoService := services.GetPhotoService()
	if photoService == nil {
		respondPhotosDisabled(c)
		return
	}

	s3Key, err := photoService.UploadPhoto(tenantID, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store photo",
			},
		})
		return
	}

	oldKey := ticket.PhotoS3Key
	ticket.PhotoS3Key = &s3Key
	if err := db.Save(&ticket).Error; err != nil {
		// Don't leave an orphaned object behind
		services.RunAdvisory("photo cleanup", log.Fields{"ticket_id": ticket.ID}, func() error {
			return photoService.DeletePhoto(s3Key)
		})
		respondDatabaseError(c, "Failed to save photo reference")
		return
	}

	// Replaced attachments are removed best-effort
	if oldKey != nil && *oldKey != "" && *oldKey != s3Key {
		services.RunAdvisory("photo cleanup", log.Fields{"ticket_id": ticket.ID}, func() error {
			return photoService.DeletePhoto(*oldKey)
		})
	}

	attachPhotoURL(&ticket)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"photo_s3_key": s3Key,
			"photo_url":    ticket.PhotoURL,
		},
	})
}

// DeleteTicketPhoto handles DELETE /api/tickets/:id/photo - removes the
// ticket's photo attachment
func DeleteTicketPhoto(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	photoService := services.GetPhotoService()
	if photoService == nil {
		respondPhotosDisabled(c)
		return
	}

	db := config.GetDB()
	var ticket models.RepairTicket
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&ticket).Error; err != nil {
		respondNotFound(c, "TICKET_NOT_FOUND", "Ticket not found")
		return
	}

	if ticket.PhotoS3Key == nil || *ticket.PhotoS3Key == "" {
		respondNotFound(c, "PHOTO_NOT_FOUND", "Ticket has no photo attachment")
		return
	}

	key := *ticket.PhotoS3Key
	ticket.PhotoS3Key = nil
	if err := db.Save(&ticket).Error; err != nil {
		respondDatabaseError(c, "Failed to remove photo reference")
		return
	}

	services.RunAdvisory("photo cleanup", log.Fields{"ticket_id": ticket.ID}, func() error {
		return photoService.DeletePhoto(key)
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// respondPhotosDisabled writes the standard envelope for deployments
// running without an S3 bucket configured
func respondPhotosDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "PHOTOS_DISABLED",
			"message": "Photo attachments are not configured on this server",
		},
	})
}
