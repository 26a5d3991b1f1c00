package usecase

import "errors"

// Sentinel errors shared across services; wrap with fmt.Errorf("%w: ...")
// to attach detail.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
