package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/zithara-mail-backend/pkg/jwt"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set for authenticated requests.
const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
)

// TokenParser validates a session token.
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerSchema) {
			log.Debug("Authorization header missing or malformed", "path", c.Request.URL.Path)
			unauthorized(c, "Not authorized to access this route - No token provided")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(authHeader[len(bearerSchema):]))
		if err != nil {
			log.Warn("Token validation failed", "err", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(c, "Token has expired")
				return
			}
			unauthorized(c, "Not authorized to access this route - Invalid token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			unauthorized(c, "Not authorized to access this route - Invalid token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id set by JWTAuthMiddleware.
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": message})
}
