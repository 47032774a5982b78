// Package domain defines the merchant directory models.
//
// The directory is the source of truth for which merchants exist; merchant
// scoped credentials must reference a registered merchant at issuance.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/paygate/credentials/internal/errors"
)

// Merchant errors.
var (
	// ErrMerchantNotFound indicates the referenced merchant does not exist.
	ErrMerchantNotFound = errors.Wrap(errors.ErrNotFound, "merchant not found")

	// ErrMerchantAlreadyExists indicates a merchant with the same ID is registered.
	ErrMerchantAlreadyExists = errors.Wrap(errors.ErrConflict, "merchant already exists")
)

// Merchant is a registered merchant in the directory.
type Merchant struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateMerchantInput contains the parameters for registering a merchant.
type CreateMerchantInput struct {
	Name string
}
