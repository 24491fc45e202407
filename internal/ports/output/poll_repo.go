package output

import (
	"context"
	"time"

	"eventpoll/internal/domain/entities"
)

type PollRepository interface {
	Create(ctx context.Context, poll *entities.Poll) error
	FindByID(ctx context.Context, id uint) (*entities.Poll, error)
	// FindByIDForUpdate locks the poll row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*entities.Poll, error)
	ListByEventID(ctx context.Context, eventID uint) ([]entities.Poll, error)
	FindExpiredRunning(ctx context.Context, now time.Time) ([]entities.Poll, error)
	Update(ctx context.Context, poll *entities.Poll) error
	// Delete removes the poll with its options and answers.
	Delete(ctx context.Context, id uint) error
}

type AnswerOptionRepository interface {
	Create(ctx context.Context, option *entities.AnswerOption) error
	FindByID(ctx context.Context, id uint) (*entities.AnswerOption, error)
	ListByPollID(ctx context.Context, pollID uint) ([]entities.AnswerOption, error)
	ListByEventID(ctx context.Context, eventID uint) ([]entities.AnswerOption, error)
	Update(ctx context.Context, option *entities.AnswerOption) error
	Delete(ctx context.Context, id uint) error
}
