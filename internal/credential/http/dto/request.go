// Package dto provides data transfer objects for the credential HTTP layer.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	appValidation "github.com/paygate/credentials/internal/validation"
)

// GenerateCredentialRequest represents the API request for issuing a new
// merchant credential. The owning merchant comes from the authenticated
// principal, never from the body.
type GenerateCredentialRequest struct {
	RateLimit        int        `json:"rateLimit"`
	AllowedEndpoints []string   `json:"allowedEndpoints"`
	Description      string     `json:"description"`
	Purpose          string     `json:"purpose"`
	ExpiresAt        *time.Time `json:"expiresAt"`
}

// Validate validates the GenerateCredentialRequest.
func (r *GenerateCredentialRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.RateLimit,
			validation.Min(0).Error("rateLimit must not be negative"),
			validation.Max(10000).Error("rateLimit must not exceed 10000"),
		),
		validation.Field(&r.AllowedEndpoints,
			validation.Each(appValidation.NotBlank, appValidation.EndpointPath),
			validation.Length(0, 64).Error("allowedEndpoints must not exceed 64 entries"),
		),
		validation.Field(&r.Description,
			validation.Length(0, 500).Error("description must not exceed 500 characters"),
		),
		validation.Field(&r.Purpose,
			validation.Length(0, 255).Error("purpose must not exceed 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// GenerateAdminCredentialRequest represents the API request for issuing an
// admin-scope credential for an internal service.
type GenerateAdminCredentialRequest struct {
	ServiceName      string     `json:"serviceName"`
	RateLimit        int        `json:"rateLimit"`
	AllowedEndpoints []string   `json:"allowedEndpoints"`
	Description      string     `json:"description"`
	ExpiresAt        *time.Time `json:"expiresAt"`
}

// Validate validates the GenerateAdminCredentialRequest.
func (r *GenerateAdminCredentialRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.ServiceName,
			validation.Required.Error("serviceName is required"),
			appValidation.NotBlank,
			appValidation.ServiceName,
			validation.Length(1, 255).Error("serviceName must be between 1 and 255 characters"),
		),
		validation.Field(&r.RateLimit,
			validation.Min(0).Error("rateLimit must not be negative"),
			validation.Max(10000).Error("rateLimit must not exceed 10000"),
		),
		validation.Field(&r.AllowedEndpoints,
			validation.Each(appValidation.NotBlank, appValidation.EndpointPath),
			validation.Length(0, 64).Error("allowedEndpoints must not exceed 64 entries"),
		),
		validation.Field(&r.Description,
			validation.Length(0, 500).Error("description must not exceed 500 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateCredentialRequest represents the API request for mutating the
// non-secret metadata of a credential. Absent fields are left unchanged.
type UpdateCredentialRequest struct {
	Description      *string  `json:"description"`
	RateLimit        *int     `json:"rateLimit"`
	AllowedEndpoints []string `json:"allowedEndpoints"`
}

// Validate validates the UpdateCredentialRequest.
func (r *UpdateCredentialRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Description,
			validation.Length(0, 500).Error("description must not exceed 500 characters"),
		),
		validation.Field(&r.RateLimit,
			validation.Min(0).Error("rateLimit must not be negative"),
			validation.Max(10000).Error("rateLimit must not exceed 10000"),
		),
		validation.Field(&r.AllowedEndpoints,
			validation.Each(appValidation.NotBlank, appValidation.EndpointPath),
			validation.Length(0, 64).Error("allowedEndpoints must not exceed 64 entries"),
		),
	)
	return appValidation.WrapValidationError(err)
}
