package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hospitalcore/hospital-api/internal/models"
	"github.com/hospitalcore/hospital-api/internal/utils"
)

const principalKey = "principal"

// AuthUser is the sanitized principal attached to a request after
// authentication. It never carries the password hash or the verification
// challenge.
type AuthUser struct {
	ID       uuid.UUID     `json:"id"`
	Email    string        `json:"email"`
	FullName string        `gorm:"column:fullname" json:"fullname"`
	Role     models.Role   `json:"role"`
	Status   models.Status `json:"status"`
}

// CurrentUser retrieves the authenticated principal set by Authenticate.
func CurrentUser(c *gin.Context) (*AuthUser, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*AuthUser)
	return user, ok
}

// Authenticate validates the bearer token and re-checks the account against
// the store on every request, so a user deactivated mid-token-window is
// rejected at the next call.
func Authenticate(db *gorm.DB, tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication token required",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, utils.ErrTokenExpired) {
				message = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": message,
			})
			return
		}

		var user AuthUser
		err = db.Model(&models.User{}).
			Select("id, email, fullname, role, status").
			First(&user, "id = ?", claims.UserID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "User not found",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Authentication error",
			})
			return
		}

		if user.Status != models.StatusActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "User inactive or not verified",
			})
			return
		}

		c.Set(principalKey, &user)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Should always run after
// Authenticate; the missing-principal branch is defensive.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not authenticated",
			})
			return
		}

		for _, role := range allowed {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success":      false,
			"message":      "You do not have permission to access this resource",
			"requiredRole": allowed,
			"yourRole":     user.Role,
		})
	}
}
