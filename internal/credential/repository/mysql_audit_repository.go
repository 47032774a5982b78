package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/database"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// MySQLAuditRepository implements audit entry persistence for MySQL.
// Audit entries are append-only; there is no update path.
type MySQLAuditRepository struct {
	db *sql.DB
}

// NewMySQLAuditRepository creates a new MySQLAuditRepository.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}

// Create inserts a new audit entry into the MySQL database.
func (r *MySQLAuditRepository) Create(ctx context.Context, entry *credentialDomain.AuditEntry) error {
	querier := database.GetTx(ctx, r.db)

	before, after, err := marshalSnapshots(entry)
	if err != nil {
		return err
	}

	idBytes, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	entityBytes, err := entry.EntityID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entity UUID")
	}

	query := `INSERT INTO audit_entries (id, entity_id, action, before_state, after_state, actor, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		entityBytes,
		entry.Action,
		before,
		after,
		entry.Actor,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

// ListByEntity retrieves audit entries for a credential, newest first.
func (r *MySQLAuditRepository) ListByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	offset, limit int,
) ([]*credentialDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, r.db)

	entityBytes, err := entityID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal entity UUID")
	}

	query := `SELECT id, entity_id, action, before_state, after_state, actor, created_at
			  FROM audit_entries WHERE entity_id = ?
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, entityBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() { _ = rows.Close() }()

	var entries []*credentialDomain.AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows, scanBinaryUUID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}
	return entries, nil
}

// DeleteOlderThan removes audit entries created before the cutoff. Returns the
// number of deleted entries.
func (r *MySQLAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM audit_entries WHERE created_at < ?`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit entries")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read delete result")
	}
	return deleted, nil
}
