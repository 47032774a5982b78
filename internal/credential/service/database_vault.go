package service

import (
	"context"
	"time"

	"gocloud.dev/secrets"

	"github.com/paygate/credentials/internal/credential/domain"
	apperrors "github.com/paygate/credentials/internal/errors"

	// Register KMS provider drivers for secrets.OpenKeeper URIs.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// SecretBlob is an encrypted secret record stored in the relational database
// by the database vault backend.
type SecretBlob struct {
	Name       string
	Ciphertext []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SecretBlobRepository defines persistence operations for encrypted secret blobs.
type SecretBlobRepository interface {
	// Upsert stores the blob, replacing any existing blob with the same name.
	Upsert(ctx context.Context, blob *SecretBlob) error

	// Get retrieves a blob by name. Returns domain.ErrSecretNotFound when
	// no blob exists.
	Get(ctx context.Context, name string) (*SecretBlob, error)

	// Delete removes a blob by name. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
}

// DatabaseVault implements SecretVault on the relational database, encrypting
// each hashed secret at rest with a KMS keeper. This backend keeps small
// deployments on a single datastore while preserving encryption at rest.
type DatabaseVault struct {
	keeper *secrets.Keeper
	blobs  SecretBlobRepository
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the
// keyURI. Supports gcpkms://, awskms://, azurekeyvault://, hashivault:// and
// base64key:// URIs.
func OpenKeeper(ctx context.Context, keyURI string) (*secrets.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	return keeper, nil
}

// NewDatabaseVault creates a SecretVault that encrypts blobs with the given
// keeper and persists them through the blob repository.
func NewDatabaseVault(keeper *secrets.Keeper, blobs SecretBlobRepository) *DatabaseVault {
	return &DatabaseVault{keeper: keeper, blobs: blobs}
}

// Put encrypts the hashed secret and stores it under the given name,
// replacing any previous value.
func (v *DatabaseVault) Put(ctx context.Context, name string, hashedSecret string) error {
	ciphertext, err := v.keeper.Encrypt(ctx, []byte(hashedSecret))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}

	now := time.Now().UTC()
	blob := &SecretBlob{
		Name:       name,
		Ciphertext: ciphertext,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return v.blobs.Upsert(ctx, blob)
}

// Get retrieves and decrypts the hashed secret stored under the given name.
func (v *DatabaseVault) Get(ctx context.Context, name string) (string, error) {
	blob, err := v.blobs.Get(ctx, name)
	if err != nil {
		return "", err
	}

	plaintext, err := v.keeper.Decrypt(ctx, blob.Ciphertext)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}

	hashedSecret := string(plaintext)
	domain.Zero(plaintext)
	return hashedSecret, nil
}

// Delete removes the secret stored under the given name.
func (v *DatabaseVault) Delete(ctx context.Context, name string) error {
	return v.blobs.Delete(ctx, name)
}
