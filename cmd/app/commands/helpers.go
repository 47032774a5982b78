// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/paygate/credentials/internal/app"
	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// credentialOutput is the printable result of an issuance or rotation. The
// secret appears here once and is not retrievable afterwards.
type credentialOutput struct {
	CredentialID string `json:"credentialId"`
	ServiceName  string `json:"serviceName,omitempty"`
	Secret       string `json:"secret"`
}

// writeCredentialOutput prints the credential and its one-time secret in the
// requested format, then releases the scoped buffer.
func writeCredentialOutput(
	writer io.Writer,
	format string,
	credential *credentialDomain.Credential,
	secret *credentialDomain.Secret,
) error {
	defer secret.Release()

	var plaintext string
	if err := secret.WithBytes(func(b []byte) error {
		plaintext = string(b)
		return nil
	}); err != nil {
		return err
	}

	output := credentialOutput{
		CredentialID: credential.ID.String(),
		ServiceName:  credential.ServiceName,
		Secret:       plaintext,
	}

	if format == "json" {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}

	_, _ = fmt.Fprintf(writer, "Credential ID: %s\n", output.CredentialID)
	if output.ServiceName != "" {
		_, _ = fmt.Fprintf(writer, "Service Name:  %s\n", output.ServiceName)
	}
	_, _ = fmt.Fprintf(writer, "Secret:        %s\n", output.Secret)
	_, _ = fmt.Fprintln(writer, "\nStore the secret now. It cannot be retrieved again.")
	return nil
}

// bootstrapPrincipal is the operator identity used by admin CLI commands.
// It mirrors the principal produced by the admin bootstrap authentication path.
func bootstrapPrincipal(actor string) *credentialDomain.Principal {
	if actor == "" {
		actor = credentialDomain.SystemActor
	}
	return &credentialDomain.Principal{
		Scope:            credentialDomain.ScopeAdmin,
		AllowedEndpoints: append([]string(nil), credentialDomain.DefaultAdminAllowedEndpoints...),
		Actor:            actor,
	}
}
