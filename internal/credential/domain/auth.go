package domain

// AuthRequest carries the authentication material extracted from request
// headers. Exactly one identity form is expected: an API key pair
// (APIKeyID, OwnerID) for merchant calls, or a ServiceName for the admin
// bootstrap path. The presented secret is held in a scoped buffer owned by
// the caller.
type AuthRequest struct {
	APIKeyID    string
	OwnerID     string
	ServiceName string
	Secret      *Secret
	Timestamp   string
	Nonce       string
	Actor       string
}

// IsAdminBootstrap reports whether the request uses the admin shared-secret path.
func (r *AuthRequest) IsAdminBootstrap() bool {
	return r.ServiceName != ""
}
