// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/paygate/credentials/internal/errors"
)

var (
	// serviceNameRegex restricts service names to a safe identifier charset.
	// Path separators are intentionally excluded; a service name becomes part
	// of a vault secret name and must never cross namespaces.
	serviceNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// ServiceName validates an admin service identifier: letters, digits,
// hyphen and underscore only.
var ServiceName = validation.NewStringRuleWithError(
	IsServiceName,
	validation.NewError(
		"validation_service_name",
		"must contain only letters, digits, hyphens and underscores",
	),
)

// IsServiceName reports whether s is a valid admin service identifier.
func IsServiceName(s string) bool {
	return serviceNameRegex.MatchString(s)
}

// EndpointPath validates an allowed-endpoint path pattern. Patterns must be
// absolute ("/...") and may contain "*" wildcards, e.g. "/v1/payments/*".
var EndpointPath = validation.NewStringRuleWithError(
	func(s string) bool {
		if s == "*" {
			return true
		}
		if !strings.HasPrefix(s, "/") {
			return false
		}
		return !strings.Contains(s, "//") && !strings.ContainsAny(s, " \t\n")
	},
	validation.NewError(
		"validation_endpoint_path",
		"must be an absolute path pattern such as /v1/payments/*",
	),
)
