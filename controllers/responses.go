package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondUnauthorized writes the standard envelope for requests whose
// session claims could not be extracted
func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Could not extract session information",
		},
	})
}

// respondValidationError writes the standard envelope for malformed
// request bodies
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// respondDatabaseError writes the standard envelope for unexpected
// store failures
func respondDatabaseError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": message,
		},
	})
}

// respondNotFound writes the standard envelope for a missing entity.
// Rows owned by another tenant are intentionally indistinguishable from
// true absence.
func respondNotFound(c *gin.Context, code, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
