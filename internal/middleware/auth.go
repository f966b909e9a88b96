package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jerehe1/folio/internal/models"
)

// Authenticator verifies bearer tokens and role requirements.
type Authenticator interface {
	Authenticate(token string) (*models.Identity, error)
	RequireAdmin(identity *models.Identity) error
}

// AuthRequired rejects requests without a valid bearer token and stores the
// verified identity in the context
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.Authenticate(tokenFromRequest(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// AdminRequired rejects authenticated callers without the admin role.
// It must run after AuthRequired.
func AdminRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := auth.RequireAdmin(GetIdentity(c))
		switch {
		case errors.Is(err, models.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Next()
	}
}

// GetIdentity retrieves the verified identity from context
func GetIdentity(c *gin.Context) *models.Identity {
	identity, exists := c.Get(identityKey)
	if !exists {
		return nil
	}

	if id, ok := identity.(*models.Identity); ok {
		return id
	}

	return nil
}
