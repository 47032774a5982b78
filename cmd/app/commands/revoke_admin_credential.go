package commands

import (
	"context"
	"fmt"
	"log/slog"

	credentialUseCase "github.com/paygate/credentials/internal/credential/usecase"
)

// RunRevokeAdminCredential revokes the active admin credential for a service.
// Revocation is terminal; a service needs a new credential to authenticate
// again. Revoking when no active credential exists reports not found.
func RunRevokeAdminCredential(
	ctx context.Context,
	lifecycle credentialUseCase.LifecycleUseCase,
	logger *slog.Logger,
	serviceName string,
	actor string,
	io IOTuple,
) error {
	logger.Info("revoking admin credential", slog.String("service_name", serviceName))

	if err := lifecycle.RevokeAdmin(ctx, bootstrapPrincipal(actor), serviceName); err != nil {
		return fmt.Errorf("failed to revoke admin credential: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Admin credential for %q revoked.\n", serviceName)

	logger.Info("admin credential revoked successfully",
		slog.String("service_name", serviceName),
	)
	return nil
}
