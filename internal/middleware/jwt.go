package middleware

import (
	"strings"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// IdentityResolver maps an internal bearer credential to a user id.
type IdentityResolver interface {
	Resolve(credential string) (string, bool)
}

// Credential returns the caller's internal credential from the Authorization
// header, falling back to the access_token query parameter used by browser redirects.
func Credential(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return c.Query("access_token")
}

// JWTAuthMiddleware rejects requests without a resolvable credential and sets user_id.
func JWTAuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := Credential(c)
		if credential == "" {
			utils.RespondAPIError(c, appErrors.ErrUnauthenticated)
			return
		}
		userID, ok := resolver.Resolve(credential)
		if !ok {
			utils.RespondAPIError(c, appErrors.ErrUnauthenticated)
			return
		}
		// Populate context with the resolved identity
		c.Set("user_id", userID)
		c.Next()
	}
}
