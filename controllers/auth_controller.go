package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vbranas/tallerpro-api/config"
	"github.com/vbranas/tallerpro-api/models"
	"github.com/vbranas/tallerpro-api/services"
)

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
	TenantID uint   `json:"tenant_id"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register - creates a local account.
// The admin allow-list from configuration is consulted exactly once,
// here at account creation, to grant the elevated role.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	db := config.GetDB()
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMAIL_EXISTS",
				"message": "A user with this email already exists",
			},
		})
		return
	}

	authService := services.GetAuthService()
	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		respondDatabaseError(c, "Failed to register user")
		return
	}

	role := "client"
	if config.GetConfig().IsAdminEmail(email) {
		role = "admin"
	}

	user := models.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		Provider:     "local",
		TenantID:     req.TenantID,
	}
	if err := db.Create(&user).Error; err != nil {
		respondDatabaseError(c, "Failed to register user")
		return
	}

	token, err := authService.GenerateToken(&user)
	if err != nil {
		respondDatabaseError(c, "Failed to issue session token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
			"user":  user,
		},
	})
}

// Login handles POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	db := config.GetDB()
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		respondInvalidCredentials(c)
		return
	}

	authService := services.GetAuthService()
	if !authService.CheckPassword(req.Password, user.PasswordHash) {
		respondInvalidCredentials(c)
		return
	}

	token, err := authService.GenerateToken(&user)
	if err != nil {
		respondDatabaseError(c, "Failed to issue session token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
			"user":  user,
		},
	})
}

// Me handles GET /api/auth/me - returns the session's user, or a null
// user when the token is absent or invalid. Always 200 so the dashboard
// can probe the session without error handling.
func Me(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"user": nil},
		})
		return
	}

	claims, err := services.GetAuthService().ValidateToken(authHeader)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"user": nil},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user": gin.H{
				"id":        claims.UserID,
				"email":     claims.Email,
				"name":      claims.Name,
				"role":      claims.Role,
				"tenant_id": claims.TenantID,
			},
		},
	})
}

func respondInvalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_CREDENTIALS",
			"message": "Invalid email or password",
		},
	})
}
