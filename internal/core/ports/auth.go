package ports

import (
	"context"
	"errors"

	"github.com/olprod/backend/internal/core/domain"
)

// ErrRejected indicates the auth backend refused the request (unknown email,
// wrong password, duplicate registration).
var ErrRejected = errors.New("request rejected")

// RejectedError carries the backend's message for a refused auth request.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return ErrRejected.Error()
	}
	return e.Message
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, email, password, artistName string) (domain.User, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}
