package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	credentialHTTP "github.com/paygate/credentials/internal/credential/http"
	credentialRepository "github.com/paygate/credentials/internal/credential/repository"
	credentialService "github.com/paygate/credentials/internal/credential/service"
	credentialUseCase "github.com/paygate/credentials/internal/credential/usecase"
	internalHTTP "github.com/paygate/credentials/internal/http"
	merchantRepository "github.com/paygate/credentials/internal/merchant/repository"
)

// CredentialRepository returns the credential repository based on the
// database driver.
func (c *Container) CredentialRepository() (credentialUseCase.CredentialRepository, error) {
	c.credentialRepoInit.Do(func() {
		repo, err := c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
			return
		}
		c.credentialRepo = repo
	})
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// AuditRepository returns the audit repository based on the database driver.
func (c *Container) AuditRepository() (credentialUseCase.AuditRepository, error) {
	c.auditRepoInit.Do(func() {
		repo, err := c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
			return
		}
		c.auditRepo = repo
	})
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// MerchantDirectory returns the merchant directory based on the database
// driver.
func (c *Container) MerchantDirectory() (credentialUseCase.MerchantDirectory, error) {
	c.merchantDirInit.Do(func() {
		directory, err := c.initMerchantDirectory()
		if err != nil {
			c.initErrors["merchantDir"] = err
			return
		}
		c.merchantDir = directory
	})
	if storedErr, exists := c.initErrors["merchantDir"]; exists {
		return nil, storedErr
	}
	return c.merchantDir, nil
}

// SecretService returns the secret generation and hashing service.
func (c *Container) SecretService() credentialService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = credentialService.NewSecretService()
	})
	return c.secretService
}

// SecretNameFormatter returns the vault name formatter.
func (c *Container) SecretNameFormatter() (*credentialService.SecretNameFormatter, error) {
	c.nameFormatterInit.Do(func() {
		formatter, err := credentialService.NewSecretNameFormatter(
			c.config.AdminSecretNameTemplate,
			c.config.MerchantSecretNameTemplate,
		)
		if err != nil {
			c.initErrors["nameFormatter"] = fmt.Errorf("failed to create secret name formatter: %w", err)
			return
		}
		c.nameFormatter = formatter
	})
	if storedErr, exists := c.initErrors["nameFormatter"]; exists {
		return nil, storedErr
	}
	return c.nameFormatter, nil
}

// NonceLedger returns the in-memory replay protection ledger.
func (c *Container) NonceLedger() (credentialService.NonceLedger, error) {
	c.nonceLedgerInit.Do(func() {
		ledger, err := credentialService.NewNonceLedger(
			c.config.NonceMaxEntries,
			c.config.ReplayWindow,
			c.config.NonceSweepInterval,
		)
		if err != nil {
			c.initErrors["nonceLedger"] = fmt.Errorf("failed to create nonce ledger: %w", err)
			return
		}
		c.nonceLedger = ledger
	})
	if storedErr, exists := c.initErrors["nonceLedger"]; exists {
		return nil, storedErr
	}
	return c.nonceLedger, nil
}

// SecretVault returns the secret vault backend selected by configuration.
func (c *Container) SecretVault() (credentialService.SecretVault, error) {
	c.secretVaultInit.Do(func() {
		vault, err := c.initSecretVault()
		if err != nil {
			c.initErrors["secretVault"] = err
			return
		}
		c.secretVault = vault
	})
	if storedErr, exists := c.initErrors["secretVault"]; exists {
		return nil, storedErr
	}
	return c.secretVault, nil
}

// LifecycleUseCase returns the credential lifecycle use case, wrapped with
// metrics when enabled.
func (c *Container) LifecycleUseCase() (credentialUseCase.LifecycleUseCase, error) {
	c.lifecycleInit.Do(func() {
		useCase, err := c.initLifecycleUseCase()
		if err != nil {
			c.initErrors["lifecycle"] = err
			return
		}
		c.lifecycle = useCase
	})
	if storedErr, exists := c.initErrors["lifecycle"]; exists {
		return nil, storedErr
	}
	return c.lifecycle, nil
}

// AuthenticatorUseCase returns the request authentication use case, wrapped
// with metrics when enabled.
func (c *Container) AuthenticatorUseCase() (credentialUseCase.AuthenticatorUseCase, error) {
	c.authenticatorInit.Do(func() {
		useCase, err := c.initAuthenticatorUseCase()
		if err != nil {
			c.initErrors["authenticator"] = err
			return
		}
		c.authenticator = useCase
	})
	if storedErr, exists := c.initErrors["authenticator"]; exists {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// AuditUseCase returns the audit trail use case.
func (c *Container) AuditUseCase() (credentialUseCase.AuditUseCase, error) {
	c.auditUseCaseInit.Do(func() {
		auditRepo, err := c.AuditRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}
		credentialRepo, err := c.CredentialRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}
		c.auditUseCase = credentialUseCase.NewAuditUseCase(
			auditRepo,
			credentialRepo,
			credentialUseCase.NewScopeAuthorizer(),
		)
	})
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// credentialRoutes builds the route registrar for the credential API.
func (c *Container) credentialRoutes() (internalHTTP.RouteRegistrar, error) {
	lifecycle, err := c.LifecycleUseCase()
	if err != nil {
		return nil, err
	}
	authenticator, err := c.AuthenticatorUseCase()
	if err != nil {
		return nil, err
	}
	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, err
	}

	logger := c.Logger()
	cfg := credentialHTTP.RouteConfig{
		Authenticator:     authenticator,
		CredentialHandler: credentialHTTP.NewCredentialHandler(lifecycle, auditUseCase, logger),
		AdminHandler:      credentialHTTP.NewAdminCredentialHandler(lifecycle, logger),
		AuthHandler:       credentialHTTP.NewAuthHandler(logger),
		RateLimitEnabled:  c.config.RateLimitEnabled,
		RateLimiter: credentialHTTP.RateLimiterConfig{
			DefaultRequestsPerSec: c.config.RateLimitDefaultRequestsPerSec,
			Burst:                 c.config.RateLimitBurst,
			MaxLimiters:           c.config.RateLimitMaxTracked,
		},
		Logger: logger,
	}

	return func(router *gin.Engine) {
		credentialHTTP.RegisterRoutes(router, cfg)
	}, nil
}

// initCredentialRepository creates the credential repository based on the
// database driver.
func (c *Container) initCredentialRepository() (credentialUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return credentialRepository.NewPostgreSQLCredentialRepository(db), nil
	case "mysql":
		return credentialRepository.NewMySQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditRepository creates the audit repository based on the database driver.
func (c *Container) initAuditRepository() (credentialUseCase.AuditRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return credentialRepository.NewPostgreSQLAuditRepository(db), nil
	case "mysql":
		return credentialRepository.NewMySQLAuditRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initMerchantDirectory creates the merchant directory based on the database
// driver.
func (c *Container) initMerchantDirectory() (credentialUseCase.MerchantDirectory, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for merchant directory: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return merchantRepository.NewPostgreSQLMerchantRepository(db), nil
	case "mysql":
		return merchantRepository.NewMySQLMerchantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretBlobRepository creates the encrypted blob repository used by the
// database vault backend.
func (c *Container) initSecretBlobRepository() (credentialService.SecretBlobRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret blob repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return credentialRepository.NewPostgreSQLSecretBlobRepository(db), nil
	case "mysql":
		return credentialRepository.NewMySQLSecretBlobRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretVault creates the configured secret vault backend.
func (c *Container) initSecretVault() (credentialService.SecretVault, error) {
	switch c.config.VaultBackend {
	case "hashivault":
		vault, err := credentialService.NewHashiVault(credentialService.HashiVaultConfig{
			Address: c.config.VaultAddress,
			Token:   c.config.VaultToken,
			Mount:   c.config.VaultMount,
			Timeout: c.config.VaultTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create hashivault backend: %w", err)
		}
		return vault, nil

	case "database":
		c.secretBlobRepoInit.Do(func() {
			repo, err := c.initSecretBlobRepository()
			if err != nil {
				c.initErrors["secretBlobRepo"] = err
				return
			}
			c.secretBlobRepo = repo
		})
		if storedErr, exists := c.initErrors["secretBlobRepo"]; exists {
			return nil, storedErr
		}

		keeper, err := credentialService.OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open kms keeper: %w", err)
		}
		return credentialService.NewDatabaseVault(keeper, c.secretBlobRepo), nil

	default:
		return nil, fmt.Errorf("unsupported vault backend: %s", c.config.VaultBackend)
	}
}

// initLifecycleUseCase assembles the lifecycle use case with its collaborators.
func (c *Container) initLifecycleUseCase() (credentialUseCase.LifecycleUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}
	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, err
	}
	merchantDir, err := c.MerchantDirectory()
	if err != nil {
		return nil, err
	}
	vault, err := c.SecretVault()
	if err != nil {
		return nil, err
	}
	nameFormatter, err := c.SecretNameFormatter()
	if err != nil {
		return nil, err
	}
	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, err
	}

	useCase := credentialUseCase.NewLifecycleUseCase(
		txManager,
		credentialRepo,
		merchantDir,
		c.SecretService(),
		vault,
		nameFormatter,
		credentialUseCase.NewScopeAuthorizer(),
		auditUseCase,
		c.Logger(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}
	if businessMetrics != nil {
		useCase = credentialUseCase.NewLifecycleUseCaseWithMetrics(useCase, businessMetrics)
	}
	return useCase, nil
}

// initAuthenticatorUseCase assembles the authenticator with its collaborators.
func (c *Container) initAuthenticatorUseCase() (credentialUseCase.AuthenticatorUseCase, error) {
	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, err
	}
	vault, err := c.SecretVault()
	if err != nil {
		return nil, err
	}
	nameFormatter, err := c.SecretNameFormatter()
	if err != nil {
		return nil, err
	}
	nonceLedger, err := c.NonceLedger()
	if err != nil {
		return nil, err
	}

	useCase := credentialUseCase.NewAuthenticatorUseCase(
		credentialRepo,
		vault,
		nameFormatter,
		nonceLedger,
		c.SecretService(),
		c.config.ReplayWindow,
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}
	if businessMetrics != nil {
		useCase = credentialUseCase.NewAuthenticatorUseCaseWithMetrics(useCase, businessMetrics)
	}
	return useCase, nil
}
