package service

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/paygate/credentials/internal/credential/domain"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// hashedSecretKey is the KV field holding the argon2id hash.
const hashedSecretKey = "hashed_secret"

// HashiVault implements SecretVault on top of HashiCorp Vault's KV version 2
// secret engine. Vault names map directly to KV paths under the mount.
type HashiVault struct {
	client  *api.Client
	mount   string
	timeout time.Duration
}

// HashiVaultConfig holds the connection settings for a Vault KVv2 mount.
type HashiVaultConfig struct {
	Address string
	Token   string
	Mount   string
	Timeout time.Duration
}

// NewHashiVault creates a SecretVault backed by HashiCorp Vault.
func NewHashiVault(cfg HashiVaultConfig) (*HashiVault, error) {
	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.Address

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create vault client")
	}
	client.SetToken(cfg.Token)

	return &HashiVault{
		client:  client,
		mount:   cfg.Mount,
		timeout: cfg.Timeout,
	}, nil
}

// Put stores the hashed secret at the given KV path, creating a new version.
func (v *HashiVault) Put(ctx context.Context, name string, hashedSecret string) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	data := map[string]any{hashedSecretKey: hashedSecret}
	if _, err := v.client.KVv2(v.mount).Put(ctx, name, data); err != nil {
		return apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	return nil
}

// Get retrieves the hashed secret stored at the given KV path.
func (v *HashiVault) Get(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	secret, err := v.client.KVv2(v.mount).Get(ctx, name)
	if err != nil {
		if errors.Is(err, api.ErrSecretNotFound) {
			return "", domain.ErrSecretNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	if secret == nil || secret.Data == nil {
		return "", domain.ErrSecretNotFound
	}

	hashedSecret, ok := secret.Data[hashedSecretKey].(string)
	if !ok {
		return "", apperrors.New("secret data missing hashed_secret field")
	}
	return hashedSecret, nil
}

// Delete removes the secret and all its versions at the given KV path.
// Deleting a missing path is not an error.
func (v *HashiVault) Delete(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	if err := v.client.KVv2(v.mount).DeleteMetadata(ctx, name); err != nil {
		if errors.Is(err, api.ErrSecretNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	return nil
}
