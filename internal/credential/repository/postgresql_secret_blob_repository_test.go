package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/credential/service"
)

func TestPostgreSQLSecretBlobRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostgreSQLSecretBlobRepository(db)

	now := time.Now().UTC()
	blob := &service.SecretBlob{
		Name:       "merchants/abc/apikeys/def",
		Ciphertext: []byte{0x01, 0x02},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectExec("INSERT INTO secret_blobs").
		WithArgs(blob.Name, blob.Ciphertext, blob.CreatedAt, blob.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(ctx, blob)
	require.NoError(t, err)
}

func TestPostgreSQLSecretBlobRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretBlobRepository(db)

		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"name", "ciphertext", "created_at", "updated_at"}).
			AddRow("admin/billing-admin-secret", []byte{0x01}, now, now)

		mock.ExpectQuery("SELECT (.+) FROM secret_blobs WHERE name").
			WithArgs("admin/billing-admin-secret").
			WillReturnRows(rows)

		blob, err := repo.Get(ctx, "admin/billing-admin-secret")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01}, blob.Ciphertext)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLSecretBlobRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM secret_blobs WHERE name").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, "admin/unknown-admin-secret")
		assert.ErrorIs(t, err, credentialDomain.ErrSecretNotFound)
	})
}

func TestPostgreSQLSecretBlobRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostgreSQLSecretBlobRepository(db)

	mock.ExpectExec("DELETE FROM secret_blobs WHERE name").
		WithArgs("merchants/abc/apikeys/def").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(ctx, "merchants/abc/apikeys/def")
	require.NoError(t, err)
}
