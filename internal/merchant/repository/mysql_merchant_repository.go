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

// MySQLMerchantRepository implements merchant persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLMerchantRepository struct {
	db *sql.DB
}

// NewMySQLMerchantRepository creates a new MySQLMerchantRepository.
func NewMySQLMerchantRepository(db *sql.DB) *MySQLMerchantRepository {
	return &MySQLMerchantRepository{db: db}
}

// Create inserts a new merchant into the MySQL database.
func (r *MySQLMerchantRepository) Create(ctx context.Context, merchant *merchantDomain.Merchant) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO merchants (id, name, created_at, updated_at)
			  VALUES (?, ?, ?, ?)`

	idBytes, err := merchant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		merchant.Name,
		merchant.CreatedAt,
		merchant.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return merchantDomain.ErrMerchantAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create merchant")
	}
	return nil
}

// Get retrieves a merchant by ID from the MySQL database.
func (r *MySQLMerchantRepository) Get(ctx context.Context, merchantID uuid.UUID) (*merchantDomain.Merchant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at, updated_at FROM merchants WHERE id = ?`

	idBytes, err := merchantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var merchant merchantDomain.Merchant
	var scannedID []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&scannedID,
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

	if err := merchant.ID.UnmarshalBinary(scannedID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &merchant, nil
}

// Exists reports whether a merchant with the given ID is registered.
func (r *MySQLMerchantRepository) Exists(ctx context.Context, merchantID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM merchants WHERE id = ?)`

	idBytes, err := merchantID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var exists bool
	if err := querier.QueryRowContext(ctx, query, idBytes).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check merchant existence")
	}
	return exists, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
