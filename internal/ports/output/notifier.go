package output

import (
	"context"

	"eventpoll/internal/domain/entities"
)

// Notifier delivers fire-and-forget account messages.
type Notifier interface {
	AccountCreated(ctx context.Context, user entities.User) error
}
