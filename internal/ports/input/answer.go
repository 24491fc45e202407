package input

import (
	"context"

	"eventpoll/internal/domain/entities"
)

type AnswerUseCase interface {
	SubmitAnswer(ctx context.Context, actor *entities.User, pollID, optionID uint) (*entities.Answer, error)
	UpdateAnswer(ctx context.Context, actor *entities.User, pollID, optionID uint) (*entities.Answer, error)
	DeleteAnswer(ctx context.Context, actor *entities.User, id uint) error
	ListAnswers(ctx context.Context, actor *entities.User, pollID uint) ([]entities.Answer, error)
	ListAnswersForEvent(ctx context.Context, actor *entities.User, eventID uint) ([]entities.Answer, error)
	ListAllAnswers(ctx context.Context, actor *entities.User, skip, limit int) ([]entities.Answer, error)
}
