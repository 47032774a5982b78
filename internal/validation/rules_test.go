package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/paygate/credentials/internal/errors"
)

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("billing"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
}

func TestServiceName(t *testing.T) {
	valid := []string{"billing", "billing-v2", "billing_service", "B1lling"}
	for _, s := range valid {
		assert.NoError(t, ServiceName.Validate(s), s)
	}

	invalid := []string{"", "billing/admin", "billing service", "../etc", "a.b", "a\\b"}
	for _, s := range invalid {
		assert.Error(t, ServiceName.Validate(s), s)
	}
}

func TestEndpointPath(t *testing.T) {
	valid := []string{"*", "/bulk-sale-complete", "/v1/payments/*", "/v1/*/refunds"}
	for _, s := range valid {
		assert.NoError(t, EndpointPath.Validate(s), s)
	}

	invalid := []string{"", "payments", "//double", "/with space"}
	for _, s := range invalid {
		assert.Error(t, EndpointPath.Validate(s), s)
	}
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}
