package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/database"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// MySQLCredentialRepository implements credential persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLCredentialRepository struct {
	db *sql.DB
}

// NewMySQLCredentialRepository creates a new MySQLCredentialRepository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

const mysqlCredentialColumns = `id, scope, owner_id, service_name, status, rate_limit,
	allowed_endpoints, description, purpose, created_at, updated_at,
	last_rotated_at, revoked_at, expires_at`

// Create inserts a new credential into the MySQL database.
func (r *MySQLCredentialRepository) Create(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, r.db)

	endpoints, err := json.Marshal(credential.AllowedEndpoints)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal allowed endpoints")
	}

	idBytes, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	ownerBytes, err := uuidPtrBytes(credential.OwnerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner UUID")
	}

	query := `INSERT INTO credentials (` + mysqlCredentialColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		credential.Scope,
		ownerBytes,
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
		var mysqlErr *gomysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return credentialDomain.ErrDuplicateCredential
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Get retrieves a credential by ID from the MySQL database.
func (r *MySQLCredentialRepository) Get(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := credentialID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT ` + mysqlCredentialColumns + ` FROM credentials WHERE id = ?`

	credential, err := scanMySQLCredential(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}
	return credential, nil
}

// GetActiveByServiceName retrieves the active admin credential for a service.
func (r *MySQLCredentialRepository) GetActiveByServiceName(ctx context.Context, serviceName string) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlCredentialColumns + ` FROM credentials
			  WHERE scope = ? AND service_name = ? AND status = ?
			  ORDER BY created_at DESC LIMIT 1`

	credential, err := scanMySQLCredential(querier.QueryRowContext(
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
func (r *MySQLCredentialRepository) List(ctx context.Context, filter *credentialDomain.ListFilter) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, r.db)

	where, args, err := buildMySQLCredentialFilter(filter)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + mysqlCredentialColumns + ` FROM credentials` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer func() { _ = rows.Close() }()

	var credentials []*credentialDomain.Credential
	for rows.Next() {
		credential, err := scanMySQLCredential(rows)
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
func (r *MySQLCredentialRepository) Count(ctx context.Context, filter *credentialDomain.ListFilter) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	where, args, err := buildMySQLCredentialFilter(filter)
	if err != nil {
		return 0, err
	}
	query := `SELECT COUNT(*) FROM credentials` + where

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count credentials")
	}
	return count, nil
}

// Update modifies a credential guarded by an optimistic check on the previous
// updated_at value.
func (r *MySQLCredentialRepository) Update(
	ctx context.Context,
	credential *credentialDomain.Credential,
	expectedUpdatedAt time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	endpoints, err := json.Marshal(credential.AllowedEndpoints)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal allowed endpoints")
	}
	idBytes, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE credentials
			  SET status = ?,
				  rate_limit = ?,
				  allowed_endpoints = ?,
				  description = ?,
				  updated_at = ?,
				  last_rotated_at = ?,
				  revoked_at = ?,
				  expires_at = ?
			  WHERE id = ? AND updated_at = ?`

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
		idBytes,
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
		if _, err := r.Get(ctx, credential.ID); err != nil {
			return err
		}
		return credentialDomain.ErrConcurrentModification
	}
	return nil
}

func scanMySQLCredential(row scanner) (*credentialDomain.Credential, error) {
	var credential credentialDomain.Credential
	var idBytes, ownerBytes, endpoints []byte
	var serviceName sql.NullString

	err := row.Scan(
		&idBytes,
		&credential.Scope,
		&ownerBytes,
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

	if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if ownerBytes != nil {
		var ownerID uuid.UUID
		if err := ownerID.UnmarshalBinary(ownerBytes); err != nil {
			return nil, err
		}
		credential.OwnerID = &ownerID
	}
	credential.ServiceName = serviceName.String
	if err := json.Unmarshal(endpoints, &credential.AllowedEndpoints); err != nil {
		return nil, err
	}
	return &credential, nil
}

func buildMySQLCredentialFilter(filter *credentialDomain.ListFilter) (string, []any, error) {
	var clauses []string
	var args []any

	if filter.Scope != nil {
		clauses = append(clauses, "scope = ?")
		args = append(args, *filter.Scope)
	}
	if filter.OwnerID != nil {
		ownerBytes, err := filter.OwnerID.MarshalBinary()
		if err != nil {
			return "", nil, apperrors.Wrap(err, "failed to marshal owner UUID")
		}
		clauses = append(clauses, "owner_id = ?")
		args = append(args, ownerBytes)
	}
	if filter.ServiceName != nil {
		clauses = append(clauses, "service_name = ?")
		args = append(args, *filter.ServiceName)
	}
	if filter.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, *filter.Status)
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func uuidPtrBytes(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}
