package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/credential/http/dto"
	"github.com/paygate/credentials/internal/credential/usecase"
	apperrors "github.com/paygate/credentials/internal/errors"
	"github.com/paygate/credentials/internal/httputil"
)

// AdminCredentialHandler handles admin-scope credential operations addressed
// by service name. All routes require an admin principal.
type AdminCredentialHandler struct {
	lifecycle usecase.LifecycleUseCase
	logger    *slog.Logger
}

// NewAdminCredentialHandler creates a new AdminCredentialHandler.
func NewAdminCredentialHandler(lifecycle usecase.LifecycleUseCase, logger *slog.Logger) *AdminCredentialHandler {
	return &AdminCredentialHandler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// Generate handles POST /v1/admin/credentials.
func (h *AdminCredentialHandler) Generate(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, h.logger)
		return
	}

	var req dto.GenerateAdminCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed request body"), h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.lifecycle.Generate(c.Request.Context(), principal, dto.ToGenerateAdminInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.respondWithSecret(c, http.StatusCreated, output.Credential, output.Secret)
}

// Rotate handles POST /v1/admin/credentials/:serviceName/rotate.
func (h *AdminCredentialHandler) Rotate(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, h.logger)
		return
	}

	output, err := h.lifecycle.RotateAdmin(c.Request.Context(), principal, c.Param("serviceName"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.respondWithSecret(c, http.StatusOK, output.Credential, output.Secret)
}

// Revoke handles POST /v1/admin/credentials/:serviceName/revoke.
func (h *AdminCredentialHandler) Revoke(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, h.logger)
		return
	}

	if err := h.lifecycle.RevokeAdmin(c.Request.Context(), principal, c.Param("serviceName")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminCredentialHandler) respondWithSecret(
	c *gin.Context,
	status int,
	credential *credentialDomain.Credential,
	secret *credentialDomain.Secret,
) {
	defer secret.Release()

	var plaintext string
	err := secret.WithBytes(func(b []byte) error {
		plaintext = string(b)
		return nil
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(status, dto.CredentialWithSecretResponse{
		Credential: dto.ToCredentialResponse(credential),
		Secret:     plaintext,
	})
}
