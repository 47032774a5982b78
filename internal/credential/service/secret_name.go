package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/paygate/credentials/internal/credential/domain"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// Template placeholders resolved by SecretNameFormatter.
const (
	placeholderServiceName  = "{serviceName}"
	placeholderOwnerID      = "{ownerId}"
	placeholderCredentialID = "{credentialId}"
)

// SecretNameFormatter derives the deterministic vault name for a credential's
// secret from configurable templates. The mapping (scope, identity) to name is
// a bijection: authentication resolves the same name that issuance wrote.
type SecretNameFormatter struct {
	adminTemplate    string
	merchantTemplate string
	adminPrefix      string
}

// NewSecretNameFormatter validates the templates and returns a formatter.
// The admin template must contain {serviceName}; the merchant template must
// contain both {ownerId} and {credentialId}. The two templates must not share
// a prefix up to the first placeholder, otherwise names could collide across
// trust classes.
func NewSecretNameFormatter(adminTemplate, merchantTemplate string) (*SecretNameFormatter, error) {
	if !strings.Contains(adminTemplate, placeholderServiceName) {
		return nil, apperrors.New("admin secret name template must contain {serviceName}")
	}
	if !strings.Contains(merchantTemplate, placeholderOwnerID) ||
		!strings.Contains(merchantTemplate, placeholderCredentialID) {
		return nil, apperrors.New("merchant secret name template must contain {ownerId} and {credentialId}")
	}

	adminPrefix := prefixBeforePlaceholder(adminTemplate)
	merchantPrefix := prefixBeforePlaceholder(merchantTemplate)
	if adminPrefix == "" || merchantPrefix == "" {
		return nil, apperrors.New("secret name templates must not start with a placeholder")
	}
	if strings.HasPrefix(adminPrefix, merchantPrefix) || strings.HasPrefix(merchantPrefix, adminPrefix) {
		return nil, apperrors.New("admin and merchant secret name prefixes must not overlap")
	}

	return &SecretNameFormatter{
		adminTemplate:    adminTemplate,
		merchantTemplate: merchantTemplate,
		adminPrefix:      adminPrefix,
	}, nil
}

// AdminName formats the vault name for an admin-scope credential.
func (f *SecretNameFormatter) AdminName(serviceName string) string {
	return strings.ReplaceAll(f.adminTemplate, placeholderServiceName, serviceName)
}

// MerchantName formats the vault name for a merchant-scope credential.
func (f *SecretNameFormatter) MerchantName(ownerID, credentialID uuid.UUID) string {
	name := strings.ReplaceAll(f.merchantTemplate, placeholderOwnerID, ownerID.String())
	return strings.ReplaceAll(name, placeholderCredentialID, credentialID.String())
}

// NameFor formats the vault name for the given credential based on its scope.
func (f *SecretNameFormatter) NameFor(credential *domain.Credential) string {
	if credential.Scope == domain.ScopeAdmin {
		return f.AdminName(credential.ServiceName)
	}
	return f.MerchantName(*credential.OwnerID, credential.ID)
}

// IsAdminName reports whether the given vault name belongs to the admin class.
func (f *SecretNameFormatter) IsAdminName(name string) bool {
	return strings.HasPrefix(name, f.adminPrefix)
}

func prefixBeforePlaceholder(template string) string {
	idx := strings.IndexByte(template, '{')
	if idx < 0 {
		return template
	}
	return template[:idx]
}
