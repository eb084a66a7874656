package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/olprod/backend/internal/core/domain"
)

// ErrRemoteUnavailable marks a failed call to an external backend.
var ErrRemoteUnavailable = errors.New("connection error")

// RemoteError wraps a transport or status failure from an external backend.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrRemoteUnavailable)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteUnavailable
}

// ReleasesAPI is the external releases backend. Release IDs passed here are
// remote IDs.
type ReleasesAPI interface {
	List(ctx context.Context, userID string) ([]domain.ReleaseSnapshot, error)
	Create(ctx context.Context, userID string, r domain.Release) (string, error)
	// Update pushes the editable metadata of a release the backend already
	// knows, keyed by r.RemoteID.
	Update(ctx context.Context, userID string, r domain.Release) error
	SetStatus(ctx context.Context, userID, remoteID string, status domain.Status) error
	Restore(ctx context.Context, userID, remoteID string, status domain.Status) error
	Delete(ctx context.Context, userID, remoteID string, permanent bool) error
}
