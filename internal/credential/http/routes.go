package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/paygate/credentials/internal/credential/usecase"
)

// RouteConfig bundles the dependencies of the credential route group.
type RouteConfig struct {
	Authenticator     usecase.AuthenticatorUseCase
	CredentialHandler *CredentialHandler
	AdminHandler      *AdminCredentialHandler
	AuthHandler       *AuthHandler
	RateLimitEnabled  bool
	RateLimiter       RateLimiterConfig
	Logger            *slog.Logger
}

// RegisterRoutes mounts the credential API on the router. Every route behind
// the group requires a successfully authenticated signed request.
func RegisterRoutes(router *gin.Engine, cfg RouteConfig) {
	authenticated := router.Group("/v1")
	authenticated.Use(AuthMiddleware(cfg.Authenticator, cfg.Logger))
	if cfg.RateLimitEnabled {
		authenticated.Use(RateLimitMiddleware(cfg.RateLimiter))
	}

	credentials := authenticated.Group("/credentials")
	{
		credentials.POST("", cfg.CredentialHandler.Generate)
		credentials.GET("", cfg.CredentialHandler.List)
		credentials.GET("/:id", cfg.CredentialHandler.Get)
		credentials.PATCH("/:id", cfg.CredentialHandler.Update)
		credentials.POST("/:id/rotate", cfg.CredentialHandler.Rotate)
		credentials.POST("/:id/revoke", cfg.CredentialHandler.Revoke)
		credentials.GET("/:id/audit", cfg.CredentialHandler.ListAudit)
	}

	admin := authenticated.Group("/admin/credentials")
	admin.Use(RequireAdminMiddleware(cfg.Logger))
	{
		admin.POST("", cfg.AdminHandler.Generate)
		admin.POST("/:serviceName/rotate", cfg.AdminHandler.Rotate)
		admin.POST("/:serviceName/revoke", cfg.AdminHandler.Revoke)
	}

	// Forward-auth endpoint for edge proxies: the allowed-endpoint gate runs
	// against the forwarded path, not this route's own path.
	verify := authenticated.Group("/auth")
	verify.Use(EndpointGateMiddleware(cfg.Logger))
	{
		verify.GET("/verify", cfg.AuthHandler.Verify)
	}
}
