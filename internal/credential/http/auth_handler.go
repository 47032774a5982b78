package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/credential/http/dto"
	"github.com/paygate/credentials/internal/httputil"
)

// AuthHandler exposes the authentication decision to edge proxies. The proxy
// forwards the signed headers plus X-Forwarded-Path; a 200 response means the
// caller may reach that path.
type AuthHandler struct {
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// Verify handles GET /v1/auth/verify. Authentication and the endpoint gate
// already ran as middleware; this handler only echoes the principal.
func (h *AuthHandler) Verify(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPrincipalResponse(principal))
}
