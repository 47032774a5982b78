// Package repository implements data persistence for credentials, audit
// entries and encrypted secret blobs.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
// Endpoint pattern lists and audit snapshots are stored as JSON.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/database"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// PostgreSQLCredentialRepository implements credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQLCredentialRepository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

const pgCredentialColumns = `id, scope, owner_id, service_name, status, rate_limit,
	allowed_endpoints, description, purpose, created_at, updated_at,
	last_rotated_at, revoked_at, expires_at`

// Create inserts a new credential into the PostgreSQL database.
func (r *PostgreSQLCredentialRepository) Create(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, r.db)

	endpoints, err := json.Marshal(credential.AllowedEndpoints)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal allowed endpoints")
	}

	query := `INSERT INTO credentials (` + pgCredentialColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.Scope,
		uuidPtrOrNil(credential.OwnerID),
		nullString(credential.ServiceName),
		credential.Status,
		credential.RateLimit,
		endpoints,
		credential.Description,
		credential.Purpose,
		credential.CreatedAt,
		credential.UpdatedAt,
		credential.LastRotatedAt,
		credential.RevokedAt,
		credential.ExpiresAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return credentialDomain.ErrDuplicateCredential
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Get retrieves a credential by ID from the PostgreSQL database.
func (r *PostgreSQLCredentialRepository) Get(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgCredentialColumns + ` FROM credentials WHERE id = $1`

	credential, err := scanPGCredential(querier.QueryRowContext(ctx, query, credentialID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}
	return credential, nil
}

// GetActiveByServiceName retrieves the active admin credential for a service.
func (r *PostgreSQLCredentialRepository) GetActiveByServiceName(ctx context.Context, serviceName string) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgCredentialColumns + ` FROM credentials
			  WHERE scope = $1 AND service_name = $2 AND status = $3
			  ORDER BY created_at DESC LIMIT 1`

	credential, err := scanPGCredential(querier.QueryRowContext(
		ctx, query, credentialDomain.ScopeAdmin, serviceName, credentialDomain.StatusActive,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential by service name")
	}
	return credential, nil
}

// List retrieves credentials matching the filter, newest first.
func (r *PostgreSQLCredentialRepository) List(ctx context.Context, filter *credentialDomain.ListFilter) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := buildPGCredentialFilter(filter)
	query := `SELECT ` + pgCredentialColumns + ` FROM credentials` + where +
		fmt.Sprintf(` ORDER BY created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Offset, filter.Limit)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer func() { _ = rows.Close() }()

	var credentials []*credentialDomain.Credential
	for rows.Next() {
		credential, err := scanPGCredential(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential")
		}
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}
	return credentials, nil
}

// Count returns the number of credentials matching the filter.
func (r *PostgreSQLCredentialRepository) Count(ctx context.Context, filter *credentialDomain.ListFilter) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := buildPGCredentialFilter(filter)
	query := `SELECT COUNT(*) FROM credentials` + where

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count credentials")
	}
	return count, nil
}

// Update modifies a credential guarded by an optimistic check on the previous
// updated_at value. Returns ErrConcurrentModification when another mutation
// committed first, ErrCredentialNotFound when the row is gone.
func (r *PostgreSQLCredentialRepository) Update(
	ctx context.Context,
	credential *credentialDomain.Credential,
	expectedUpdatedAt time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	endpoints, err := json.Marshal(credential.AllowedEndpoints)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal allowed endpoints")
	}

	query := `UPDATE credentials
			  SET status = $1,
				  rate_limit = $2,
				  allowed_endpoints = $3,
				  description = $4,
				  updated_at = $5,
				  last_rotated_at = $6,
				  revoked_at = $7,
				  expires_at = $8
			  WHERE id = $9 AND updated_at = $10`

	result, err := querier.ExecContext(
		ctx,
		query,
		credential.Status,
		credential.RateLimit,
		endpoints,
		credential.Description,
		credential.UpdatedAt,
		credential.LastRotatedAt,
		credential.RevokedAt,
		credential.ExpiresAt,
		credential.ID,
		expectedUpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read update result")
	}
	if affected == 0 {
		// Distinguish a lost race from a missing row.
		if _, err := r.Get(ctx, credential.ID); err != nil {
			return err
		}
		return credentialDomain.ErrConcurrentModification
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanPGCredential(row scanner) (*credentialDomain.Credential, error) {
	var credential credentialDomain.Credential
	var ownerID uuid.NullUUID
	var serviceName sql.NullString
	var endpoints []byte

	err := row.Scan(
		&credential.ID,
		&credential.Scope,
		&ownerID,
		&serviceName,
		&credential.Status,
		&credential.RateLimit,
		&endpoints,
		&credential.Description,
		&credential.Purpose,
		&credential.CreatedAt,
		&credential.UpdatedAt,
		&credential.LastRotatedAt,
		&credential.RevokedAt,
		&credential.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		id := ownerID.UUID
		credential.OwnerID = &id
	}
	credential.ServiceName = serviceName.String
	if err := json.Unmarshal(endpoints, &credential.AllowedEndpoints); err != nil {
		return nil, err
	}
	return &credential, nil
}

func buildPGCredentialFilter(filter *credentialDomain.ListFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Scope != nil {
		args = append(args, *filter.Scope)
		clauses = append(clauses, fmt.Sprintf("scope = $%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.ServiceName != nil {
		args = append(args, *filter.ServiceName)
		clauses = append(clauses, fmt.Sprintf("service_name = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func uuidPtrOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "23505")
}
