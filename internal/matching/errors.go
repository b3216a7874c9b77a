// internal/matching/errors.go
package matching

import "errors"

var (
	ErrNegativeWeight   = errors.New("INVALID_WEIGHTS")
	ErrInvalidParameter = errors.New("INVALID_PARAMETERS")
	ErrMissingRequester = errors.New("PROFILE_NOT_FOUND")
)
