package repository

import (
	"context"
	"database/sql"
	"errors"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/credential/service"
	"github.com/paygate/credentials/internal/database"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// MySQLSecretBlobRepository implements encrypted secret blob persistence for
// MySQL. Used by the database vault backend.
type MySQLSecretBlobRepository struct {
	db *sql.DB
}

// NewMySQLSecretBlobRepository creates a new MySQLSecretBlobRepository.
func NewMySQLSecretBlobRepository(db *sql.DB) *MySQLSecretBlobRepository {
	return &MySQLSecretBlobRepository{db: db}
}

// Upsert stores the blob, replacing any existing blob with the same name.
func (r *MySQLSecretBlobRepository) Upsert(ctx context.Context, blob *service.SecretBlob) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO secret_blobs (name, ciphertext, created_at, updated_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  ciphertext = VALUES(ciphertext), updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(ctx, query, blob.Name, blob.Ciphertext, blob.CreatedAt, blob.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert secret blob")
	}
	return nil
}

// Get retrieves a blob by name.
func (r *MySQLSecretBlobRepository) Get(ctx context.Context, name string) (*service.SecretBlob, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT name, ciphertext, created_at, updated_at FROM secret_blobs WHERE name = ?`

	var blob service.SecretBlob
	err := querier.QueryRowContext(ctx, query, name).Scan(
		&blob.Name,
		&blob.Ciphertext,
		&blob.CreatedAt,
		&blob.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret blob")
	}
	return &blob, nil
}

// Delete removes a blob by name. Deleting a missing name is not an error.
func (r *MySQLSecretBlobRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM secret_blobs WHERE name = ?`

	if _, err := querier.ExecContext(ctx, query, name); err != nil {
		return apperrors.Wrap(err, "failed to delete secret blob")
	}
	return nil
}
