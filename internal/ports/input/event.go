package input

import (
	"context"

	"eventpoll/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, actor *entities.User, name, description string) (*entities.Event, error)
	GetEvent(ctx context.Context, actor *entities.User, id uint) (*entities.Event, error)
	ListEvents(ctx context.Context, actor *entities.User, skip, limit int) ([]entities.Event, error)
	UpdateEvent(ctx context.Context, actor *entities.User, id uint, name, description string) (*entities.Event, error)
	DeleteEvent(ctx context.Context, actor *entities.User, id uint) error
	AddParticipant(ctx context.Context, actor *entities.User, eventID, userID uint) (*entities.Event, error)
	AddModerator(ctx context.Context, actor *entities.User, eventID, userID uint, kind entities.ModeratorKind) (*entities.Event, error)
	ListAccessLogs(ctx context.Context, actor *entities.User, eventID uint, filter entities.AccessGrantFilter) ([]entities.AccessGrant, error)
}
