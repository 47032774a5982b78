package commands

import (
	"context"
	"fmt"
	"log/slog"

	credentialUseCase "github.com/paygate/credentials/internal/credential/usecase"
)

// RunRotateAdminCredential replaces the secret of the active admin credential
// for a service and prints the replacement. The previous secret is invalid as
// soon as the command succeeds.
func RunRotateAdminCredential(
	ctx context.Context,
	lifecycle credentialUseCase.LifecycleUseCase,
	logger *slog.Logger,
	serviceName string,
	actor string,
	format string,
	io IOTuple,
) error {
	logger.Info("rotating admin credential", slog.String("service_name", serviceName))

	output, err := lifecycle.RotateAdmin(ctx, bootstrapPrincipal(actor), serviceName)
	if err != nil {
		return fmt.Errorf("failed to rotate admin credential: %w", err)
	}

	if err := writeCredentialOutput(io.Writer, format, output.Credential, output.Secret); err != nil {
		return err
	}

	logger.Info("admin credential rotated successfully",
		slog.String("credential_id", output.Credential.ID.String()),
		slog.String("service_name", serviceName),
	)
	return nil
}
