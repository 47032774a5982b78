package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	credentialUseCase "github.com/paygate/credentials/internal/credential/usecase"
)

// RunCreateAdminCredential issues a new admin-scope credential for an internal
// service and prints the one-time secret.
//
// Requirements: database must be migrated and the secret vault reachable.
func RunCreateAdminCredential(
	ctx context.Context,
	lifecycle credentialUseCase.LifecycleUseCase,
	logger *slog.Logger,
	serviceName string,
	endpoints string,
	rateLimit int,
	actor string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating admin credential", slog.String("service_name", serviceName))

	input := &credentialDomain.GenerateInput{
		Scope:       credentialDomain.ScopeAdmin,
		ServiceName: serviceName,
		RateLimit:   rateLimit,
	}
	if endpoints != "" {
		for _, endpoint := range strings.Split(endpoints, ",") {
			input.AllowedEndpoints = append(input.AllowedEndpoints, strings.TrimSpace(endpoint))
		}
	}

	output, err := lifecycle.Generate(ctx, bootstrapPrincipal(actor), input)
	if err != nil {
		return fmt.Errorf("failed to create admin credential: %w", err)
	}

	if err := writeCredentialOutput(io.Writer, format, output.Credential, output.Secret); err != nil {
		return err
	}

	logger.Info("admin credential created successfully",
		slog.String("credential_id", output.Credential.ID.String()),
		slog.String("service_name", serviceName),
	)
	return nil
}
