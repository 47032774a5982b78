package http

import (
	"github.com/gin-gonic/gin"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
)

// principalKey is the gin context key under which the authenticated principal
// is stored. Handlers must only read it through GetPrincipal.
const principalKey = "auth.principal"

// SetPrincipal attaches the authenticated principal to the request context.
func SetPrincipal(c *gin.Context, principal *credentialDomain.Principal) {
	c.Set(principalKey, principal)
}

// GetPrincipal retrieves the authenticated principal from the request context.
// The second return value is false when the auth middleware did not run.
func GetPrincipal(c *gin.Context) (*credentialDomain.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*credentialDomain.Principal)
	return principal, ok
}
