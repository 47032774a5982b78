// Package http provides HTTP handlers and middleware for credential
// lifecycle and authenticated request handling.
package http

import (
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/credential/usecase"
	"github.com/paygate/credentials/internal/httputil"
)

// Authentication header names. The secret headers are read once and never
// logged or echoed back.
const (
	HeaderAPIKeyID           = "X-Api-Key-Id"
	HeaderAPISecret          = "X-Api-Secret"
	HeaderOwnerID            = "X-Owner-Id"
	HeaderServiceName        = "X-Service-Name"
	HeaderTimestamp          = "Timestamp"
	HeaderNonce              = "Nonce"
	HeaderOnboardingMetadata = "Onboarding-Metadata"

	// HeaderForwardedPath carries the original request path when an edge
	// proxy delegates the authentication decision to this service.
	HeaderForwardedPath = "X-Forwarded-Path"
)

// onboardingMetadata carries audit attribution supplied by the caller.
// Only the actor fields are used; anything else in the header is ignored.
type onboardingMetadata struct {
	AdminUserID         string `json:"adminUserId"`
	OnboardingReference string `json:"onboardingReference"`
}

// AuthMiddleware authenticates every request on the protected route group and
// stores the resulting principal in the request context. The raw secret header
// is wrapped in a scoped buffer and wiped as soon as authentication finishes.
func AuthMiddleware(authenticator usecase.AuthenticatorUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := &credentialDomain.AuthRequest{
			APIKeyID:    c.GetHeader(HeaderAPIKeyID),
			OwnerID:     c.GetHeader(HeaderOwnerID),
			ServiceName: c.GetHeader(HeaderServiceName),
			Timestamp:   c.GetHeader(HeaderTimestamp),
			Nonce:       c.GetHeader(HeaderNonce),
			Actor:       parseActor(c.GetHeader(HeaderOnboardingMetadata)),
		}
		if rawSecret := c.GetHeader(HeaderAPISecret); rawSecret != "" {
			request.Secret = credentialDomain.NewSecretFromString(rawSecret)
			defer request.Secret.Release()
		}

		principal, err := authenticator.Authenticate(c.Request.Context(), request)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// EndpointGateMiddleware enforces the principal's allowed-endpoint patterns.
// The checked path is the X-Forwarded-Path header when present (forward-auth
// from an edge proxy), the request path otherwise. It must run after
// AuthMiddleware.
func EndpointGateMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, logger)
			c.Abort()
			return
		}

		path := c.GetHeader(HeaderForwardedPath)
		if path == "" {
			path = c.Request.URL.Path
		}
		if !principal.EndpointAllowed(path) {
			httputil.HandleErrorGin(c, credentialDomain.ErrScopeViolation, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdminMiddleware rejects non-admin principals. It must run after
// AuthMiddleware.
func RequireAdminMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			httputil.HandleErrorGin(c, credentialDomain.ErrInvalidCredentials, logger)
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			httputil.HandleErrorGin(c, credentialDomain.ErrScopeViolation, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// parseActor extracts the audit actor from the onboarding metadata header.
// A missing or malformed header yields the empty string, which downstream
// defaults to the SYSTEM actor. The raw header value is never logged.
func parseActor(rawMetadata string) string {
	if rawMetadata == "" {
		return ""
	}
	var metadata onboardingMetadata
	if err := json.Unmarshal([]byte(rawMetadata), &metadata); err != nil {
		return ""
	}
	return metadata.AdminUserID
}
