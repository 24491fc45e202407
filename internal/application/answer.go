package application

import (
	"context"
	"log/slog"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/input"
	"eventpoll/internal/ports/output"
)

var _ input.AnswerUseCase = (*AnswerService)(nil)

// AnswerService is the voting engine: one answer per user per poll, changed
// in place while the poll runs.
type AnswerService struct {
	repos  Repositories
	clock  output.Clock
	logger *slog.Logger
}

func NewAnswerService(repos Repositories, clock output.Clock, logger *slog.Logger) *AnswerService {
	return &AnswerService{
		repos:  repos,
		clock:  clockOrSystem(clock),
		logger: loggerOrDefault(logger),
	}
}

// openBallot locks the poll and checks that actor may vote in it right now.
func (s *AnswerService) openBallot(ctx context.Context, actor *entities.User, pollID uint) (*entities.Poll, error) {
	poll, err := s.repos.Polls.FindByIDForUpdate(ctx, pollID)
	if err != nil {
		return nil, err
	}
	event, err := s.repos.Events.FindByID(ctx, poll.EventID)
	if err != nil {
		return nil, err
	}
	if err := domain.Require(actor, event, domain.CanSendAnswer); err != nil {
		return nil, err
	}
	if err := domain.ValidatePollOperation(poll, domain.PollOpVote); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *AnswerService) checkOption(ctx context.Context, pollID, optionID uint) error {
	option, err := s.repos.AnswerOptions.FindByID(ctx, optionID)
	if err != nil {
		return err
	}
	if option.PollID != pollID {
		return domain.ErrOptionNotInPoll
	}
	return nil
}

func (s *AnswerService) SubmitAnswer(ctx context.Context, actor *entities.User, pollID, optionID uint) (*entities.Answer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var answer *entities.Answer
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.openBallot(ctx, actor, pollID); err != nil {
			return err
		}
		if err := s.checkOption(ctx, pollID, optionID); err != nil {
			return err
		}
		if _, err := s.repos.Answers.FindLatest(ctx, pollID, actor.ID); err == nil {
			return domain.ErrAnswerExists
		} else if domain.KindOf(err) != domain.KindNotFound {
			return err
		}
		now := s.clock.Now()
		answer = &entities.Answer{
			PollID:         pollID,
			OwnerID:        actor.ID,
			AnswerOptionID: optionID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return s.repos.Answers.Create(ctx, answer)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("answer submitted", "poll_id", pollID, "answer_id", answer.ID, "actor_id", actor.ID)
	return answer, nil
}

// UpdateAnswer moves the actor's most recent answer to optionID without
// creating a new row.
func (s *AnswerService) UpdateAnswer(ctx context.Context, actor *entities.User, pollID, optionID uint) (*entities.Answer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var answer *entities.Answer
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.openBallot(ctx, actor, pollID); err != nil {
			return err
		}
		var err error
		answer, err = s.repos.Answers.FindLatest(ctx, pollID, actor.ID)
		if err != nil {
			return err
		}
		if err := s.checkOption(ctx, pollID, optionID); err != nil {
			return err
		}
		answer.AnswerOptionID = optionID
		answer.UpdatedAt = s.clock.Now()
		return s.repos.Answers.Update(ctx, answer)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("answer updated", "poll_id", pollID, "answer_id", answer.ID, "actor_id", actor.ID)
	return answer, nil
}

// DeleteAnswer lets voters withdraw while the poll runs; voting managers may
// delete any answer at any time.
func (s *AnswerService) DeleteAnswer(ctx context.Context, actor *entities.User, id uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		answer, err := s.repos.Answers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		poll, err := s.repos.Polls.FindByIDForUpdate(ctx, answer.PollID)
		if err != nil {
			return err
		}
		event, err := s.repos.Events.FindByID(ctx, poll.EventID)
		if err != nil {
			return err
		}
		switch {
		case domain.Resolve(actor, event).Has(domain.CanManageVoting):
		case answer.OwnerID == actor.ID:
			if err := domain.ValidatePollOperation(poll, domain.PollOpVote); err != nil {
				return err
			}
		default:
			return domain.ErrNotEnoughPermissions
		}
		return s.repos.Answers.Delete(ctx, id)
	})
}

func (s *AnswerService) ListAnswers(ctx context.Context, actor *entities.User, pollID uint) ([]entities.Answer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	poll, err := s.repos.Polls.FindByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	event, err := s.repos.Events.FindByID(ctx, poll.EventID)
	if err != nil {
		return nil, err
	}
	if err := domain.Require(actor, event, domain.CanViewPollInfo); err != nil {
		return nil, err
	}
	return s.repos.Answers.ListByPollID(ctx, pollID)
}

func (s *AnswerService) ListAnswersForEvent(ctx context.Context, actor *entities.User, eventID uint) ([]entities.Answer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	event, err := s.repos.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := domain.Require(actor, event, domain.CanViewPollInfo); err != nil {
		return nil, err
	}
	return s.repos.Answers.ListByEventID(ctx, eventID)
}

func (s *AnswerService) ListAllAnswers(ctx context.Context, actor *entities.User, skip, limit int) ([]entities.Answer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsSuperuser {
		return nil, domain.ErrSuperuserRequired
	}
	return s.repos.Answers.List(ctx, skip, pageLimit(limit))
}
