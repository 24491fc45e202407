package output

import (
	"context"

	"eventpoll/internal/domain/entities"
)

// AccessGrantRepository is append-only.
type AccessGrantRepository interface {
	Create(ctx context.Context, grant *entities.AccessGrant) error
	ListByEventID(ctx context.Context, eventID uint, filter entities.AccessGrantFilter) ([]entities.AccessGrant, error)
}
