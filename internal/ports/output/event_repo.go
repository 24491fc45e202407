package output

import (
	"context"

	"eventpoll/internal/domain/entities"
)

// EventRepository loads events together with their role sets. Lookups return
// domain.ErrEventNotFound when the event does not exist.
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id uint) (*entities.Event, error)
	// FindByIDForUpdate locks the event row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*entities.Event, error)
	List(ctx context.Context, skip, limit int) ([]entities.Event, error)
	// ListForUser returns events owned by userID or listing it in any role set.
	ListForUser(ctx context.Context, userID uint, skip, limit int) ([]entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	AddMember(ctx context.Context, eventID, userID uint, role entities.Role) error
	// Delete removes the event with its polls, options, answers, memberships and access grants.
	Delete(ctx context.Context, id uint) error
}
