package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vbranas/tallerpro-api/services"
)

// EnsureValidToken is a middleware that checks the validity of the
// bearer session token and stores its claims in the Gin context
func EnsureValidToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing bearer token",
				},
			})
			c.Abort()
			return
		}

		claims, err := services.GetAuthService().ValidateToken(authHeader)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate session token",
				},
			})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Next()
	}
}

// RequireTenant rejects requests whose session carries no tenant
// binding. It must run after EnsureValidToken.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "No session claims",
				},
			})
			c.Abort()
			return
		}

		if claims.TenantID == 0 {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_TENANT",
					"message": "Session carries no tenant binding",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole is a middleware that checks the session has one of the
// given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "No session claims",
				},
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
		c.Abort()
	}
}

// GetClaims extracts the validated session claims from the Gin context
func GetClaims(c *gin.Context) (*services.TokenClaims, error) {
	claims, exists := c.Get("claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	tokenClaims, ok := claims.(*services.TokenClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return tokenClaims, nil
}

// GetTenantID extracts the acting tenant from the Gin context
func GetTenantID(c *gin.Context) (uint, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return 0, err
	}
	if claims.TenantID == 0 {
		return 0, &AuthError{Code: "NO_TENANT", Message: "Session carries no tenant binding"}
	}
	return claims.TenantID, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
