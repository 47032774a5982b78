package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/credential/http/dto"
	"github.com/paygate/credentials/internal/credential/usecase"
	apperrors "github.com/paygate/credentials/internal/errors"
	"github.com/paygate/credentials/internal/httputil"
)

// CredentialHandler handles merchant-facing credential lifecycle requests.
type CredentialHandler struct {
	lifecycle usecase.LifecycleUseCase
	audit     usecase.AuditUseCase
	logger    *slog.Logger
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(
	lifecycle usecase.LifecycleUseCase,
	audit usecase.AuditUseCase,
	logger *slog.Logger,
) *CredentialHandler {
	return &CredentialHandler{
		lifecycle: lifecycle,
		audit:     audit,
		logger:    logger,
	}
}

// Generate handles POST /v1/credentials. The plaintext secret appears in this
// response and nowhere else, ever.
func (h *CredentialHandler) Generate(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, h.logger)
		return
	}
	if principal.OwnerID == nil {
		httputil.HandleErrorGin(c, credentialDomain.ErrScopeViolation, h.logger)
		return
	}

	var req dto.GenerateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed request body"), h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.lifecycle.Generate(c.Request.Context(), principal, dto.ToGenerateInput(req, *principal.OwnerID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.respondWithSecret(c, http.StatusCreated, output.Credential, output.Secret)
}

// Get handles GET /v1/credentials/:id.
func (h *CredentialHandler) Get(c *gin.Context) {
	principal, credentialID, ok := h.principalAndID(c)
	if !ok {
		return
	}

	credential, err := h.lifecycle.Get(c.Request.Context(), principal, credentialID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToCredentialResponse(credential))
}

// List handles GET /v1/credentials. Merchant callers only ever see their own
// credentials regardless of the filter they send.
func (h *CredentialHandler) List(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	filter := &credentialDomain.ListFilter{Offset: offset, Limit: limit}
	if status := c.Query("status"); status != "" {
		credentialStatus := credentialDomain.Status(status)
		filter.Status = &credentialStatus
	}

	credentials, err := h.lifecycle.List(c.Request.Context(), principal, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToCredentialListResponse(credentials, offset, limit))
}

// Update handles PATCH /v1/credentials/:id.
func (h *CredentialHandler) Update(c *gin.Context) {
	principal, credentialID, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req dto.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed request body"), h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	credential, err := h.lifecycle.Update(c.Request.Context(), principal, credentialID, dto.ToUpdateInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToCredentialResponse(credential))
}

// Rotate handles POST /v1/credentials/:id/rotate. The replacement secret
// appears in this response only; the previous secret is already invalid.
func (h *CredentialHandler) Rotate(c *gin.Context) {
	principal, credentialID, ok := h.principalAndID(c)
	if !ok {
		return
	}

	output, err := h.lifecycle.Rotate(c.Request.Context(), principal, credentialID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.respondWithSecret(c, http.StatusOK, output.Credential, output.Secret)
}

// Revoke handles POST /v1/credentials/:id/revoke. Revoking an already revoked
// credential succeeds without effect.
func (h *CredentialHandler) Revoke(c *gin.Context) {
	principal, credentialID, ok := h.principalAndID(c)
	if !ok {
		return
	}

	if err := h.lifecycle.Revoke(c.Request.Context(), principal, credentialID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAudit handles GET /v1/credentials/:id/audit.
func (h *CredentialHandler) ListAudit(c *gin.Context) {
	principal, credentialID, ok := h.principalAndID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	entries, err := h.audit.ListByCredential(c.Request.Context(), principal, credentialID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditEntryListResponse(entries, offset, limit))
}

// principalAndID extracts the principal and path credential id, writing the
// error response itself on failure.
func (h *CredentialHandler) principalAndID(c *gin.Context) (*credentialDomain.Principal, uuid.UUID, bool) {
	principal, ok := GetPrincipal(c)
	if !ok {
		httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, h.logger)
		return nil, uuid.Nil, false
	}

	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed credential id"), h.logger)
		return nil, uuid.Nil, false
	}

	return principal, credentialID, true
}

// respondWithSecret writes the one-time secret response and releases the
// scoped buffer. After this the plaintext is gone from the process.
func (h *CredentialHandler) respondWithSecret(
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
