package output

import (
	"context"

	"eventpoll/internal/domain/entities"
)

type AnswerRepository interface {
	// Create returns domain.ErrAnswerExists when the owner already answered the poll.
	Create(ctx context.Context, answer *entities.Answer) error
	FindByID(ctx context.Context, id uint) (*entities.Answer, error)
	// FindLatest returns the most recently created answer of ownerID in pollID.
	FindLatest(ctx context.Context, pollID, ownerID uint) (*entities.Answer, error)
	ListByPollID(ctx context.Context, pollID uint) ([]entities.Answer, error)
	ListByEventID(ctx context.Context, eventID uint) ([]entities.Answer, error)
	List(ctx context.Context, skip, limit int) ([]entities.Answer, error)
	CountByOptionID(ctx context.Context, optionID uint) (int64, error)
	Update(ctx context.Context, answer *entities.Answer) error
	Delete(ctx context.Context, id uint) error
}
