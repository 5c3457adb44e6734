package service

import "errors"

// Operation errors surfaced to callers. Handlers map these onto HTTP status
// codes with errors.Is.
var (
	ErrUnauthorized       = errors.New("no authenticated user")
	ErrForbidden          = errors.New("operation not permitted for this user")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidState       = errors.New("operation not legal in the attempt's current state")
	ErrRetryNotAllowed    = errors.New("quiz does not allow retries")
	ErrMaxAttemptsReached = errors.New("maximum attempt count reached for this quiz")
	ErrValidation         = errors.New("malformed answer payload")
)

// Principal is the verified caller identity supplied by the upstream
// gateway. The service trusts it and never re-verifies credentials.
type Principal struct {
	UserID string
	Role   string
}

const RoleAdmin = "admin"

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
