package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/database"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// PostgreSQLAuditRepository implements audit entry persistence for PostgreSQL.
// Audit entries are append-only; there is no update path.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditRepository creates a new PostgreSQLAuditRepository.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}

// Create inserts a new audit entry into the PostgreSQL database.
func (r *PostgreSQLAuditRepository) Create(ctx context.Context, entry *credentialDomain.AuditEntry) error {
	querier := database.GetTx(ctx, r.db)

	before, after, err := marshalSnapshots(entry)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_entries (id, entity_id, action, before_state, after_state, actor, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.EntityID,
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
func (r *PostgreSQLAuditRepository) ListByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	offset, limit int,
) ([]*credentialDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, entity_id, action, before_state, after_state, actor, created_at
			  FROM audit_entries WHERE entity_id = $1
			  ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, entityID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() { _ = rows.Close() }()

	var entries []*credentialDomain.AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows, scanNativeUUID)
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
func (r *PostgreSQLAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM audit_entries WHERE created_at < $1`

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

// uuidScanMode selects native UUID scanning (PostgreSQL) or BINARY(16) (MySQL).
type uuidScanMode int

const (
	scanNativeUUID uuidScanMode = iota
	scanBinaryUUID
)

func marshalSnapshots(entry *credentialDomain.AuditEntry) ([]byte, []byte, error) {
	var before, after []byte
	var err error

	if entry.Before != nil {
		before, err = json.Marshal(entry.Before)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "failed to marshal before state")
		}
	}
	if entry.After != nil {
		after, err = json.Marshal(entry.After)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "failed to marshal after state")
		}
	}
	return before, after, nil
}

func scanAuditEntry(row scanner, mode uuidScanMode) (*credentialDomain.AuditEntry, error) {
	var entry credentialDomain.AuditEntry
	var before, after []byte

	if mode == scanBinaryUUID {
		var idBytes, entityBytes []byte
		err := row.Scan(&idBytes, &entityBytes, &entry.Action, &before, &after, &entry.Actor, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := entry.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, err
		}
		if err := entry.EntityID.UnmarshalBinary(entityBytes); err != nil {
			return nil, err
		}
	} else {
		err := row.Scan(&entry.ID, &entry.EntityID, &entry.Action, &before, &after, &entry.Actor, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	if len(before) > 0 {
		if err := json.Unmarshal(before, &entry.Before); err != nil {
			return nil, err
		}
	}
	if len(after) > 0 {
		if err := json.Unmarshal(after, &entry.After); err != nil {
			return nil, err
		}
	}
	return &entry, nil
}
