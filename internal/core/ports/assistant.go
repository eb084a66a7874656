package ports

import "context"

// Assistant answers artist support questions.
type Assistant interface {
	Reply(ctx context.Context, message string) (string, error)
}
