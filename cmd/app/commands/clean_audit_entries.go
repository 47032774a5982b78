package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	credentialUseCase "github.com/paygate/credentials/internal/credential/usecase"
)

// RunCleanAuditEntries deletes audit entries older than the specified number
// of days. The audit trail is append-only in normal operation; this command is
// the only deletion path and exists for retention compliance.
func RunCleanAuditEntries(
	ctx context.Context,
	audit credentialUseCase.AuditUseCase,
	logger *slog.Logger,
	days int,
	io IOTuple,
) error {
	if days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", days)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	logger.Info("cleaning audit entries",
		slog.Int("days", days),
		slog.Time("cutoff", cutoff),
	)

	removed, err := audit.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean audit entries: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Deleted %d audit entries older than %d days.\n", removed, days)

	logger.Info("audit entries cleaned successfully",
		slog.Int64("removed", removed),
	)
	return nil
}
