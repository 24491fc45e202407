package input

import (
	"context"
	"time"

	"eventpoll/internal/domain/entities"
)

type PollUseCase interface {
	CreatePoll(ctx context.Context, actor *entities.User, eventID uint, question string) (*entities.Poll, error)
	GetPoll(ctx context.Context, actor *entities.User, id uint) (*entities.Poll, error)
	ListPolls(ctx context.Context, actor *entities.User, eventID uint) ([]entities.Poll, error)
	RenamePoll(ctx context.Context, actor *entities.User, id uint, question string) (*entities.Poll, error)
	SetPollState(ctx context.Context, actor *entities.User, id uint, isRunning bool, stopAt time.Time) (*entities.Poll, error)
	DeletePoll(ctx context.Context, actor *entities.User, id uint) error

	CreateAnswerOption(ctx context.Context, actor *entities.User, pollID uint, text string) (*entities.AnswerOption, error)
	UpdateAnswerOption(ctx context.Context, actor *entities.User, id uint, text string) (*entities.AnswerOption, error)
	DeleteAnswerOption(ctx context.Context, actor *entities.User, id uint) error
	ListAnswerOptions(ctx context.Context, actor *entities.User, pollID uint) ([]entities.AnswerOption, error)
	ListAnswerOptionsForEvent(ctx context.Context, actor *entities.User, eventID uint) ([]entities.AnswerOption, error)
}
