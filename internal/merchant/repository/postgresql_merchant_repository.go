// Package repository implements merchant directory persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/paygate/credentials/internal/database"
	apperrors "github.com/paygate/credentials/internal/errors"
	merchantDomain "github.com/paygate/credentials/internal/merchant/domain"
)

// PostgreSQLMerchantRepository implements merchant persistence for PostgreSQL.
type PostgreSQLMerchantRepository struct {
	db *sql.DB
}

// NewPostgreSQLMerchantRepository creates a new PostgreSQLMerchantRepository.
func NewPostgreSQLMerchantRepository(db *sql.DB) *PostgreSQLMerchantRepository {
	return &PostgreSQLMerchantRepository{db: db}
}

// Create inserts a new merchant into the PostgreSQL database.
func (r *PostgreSQLMerchantRepository) Create(ctx context.Context, merchant *merchantDomain.Merchant) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO merchants (id, name, created_at, updated_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		merchant.ID,
		merchant.Name,
		merchant.CreatedAt,
		merchant.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return merchantDomain.ErrMerchantAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create merchant")
	}
	return nil
}

// Get retrieves a merchant by ID from the PostgreSQL database.
func (r *PostgreSQLMerchantRepository) Get(ctx context.Context, merchantID uuid.UUID) (*merchantDomain.Merchant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at, updated_at FROM merchants WHERE id = $1`

	var merchant merchantDomain.Merchant
	err := querier.QueryRowContext(ctx, query, merchantID).Scan(
		&merchant.ID,
		&merchant.Name,
		&merchant.CreatedAt,
		&merchant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, merchantDomain.ErrMerchantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get merchant")
	}
	return &merchant, nil
}

// Exists reports whether a merchant with the given ID is registered.
func (r *PostgreSQLMerchantRepository) Exists(ctx context.Context, merchantID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM merchants WHERE id = $1)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, merchantID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check merchant existence")
	}
	return exists, nil
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
