package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/input"
	"eventpoll/internal/ports/output"
)

var _ input.PollUseCase = (*PollService)(nil)

// PollService drives the poll lifecycle and answer option editing.
type PollService struct {
	repos  Repositories
	clock  output.Clock
	logger *slog.Logger
}

func NewPollService(repos Repositories, clock output.Clock, logger *slog.Logger) *PollService {
	return &PollService{
		repos:  repos,
		clock:  clockOrSystem(clock),
		logger: loggerOrDefault(logger),
	}
}

// authorize loads the parent event of poll and checks c on it.
func (s *PollService) authorize(ctx context.Context, actor *entities.User, poll *entities.Poll, c domain.Capability) error {
	event, err := s.repos.Events.FindByID(ctx, poll.EventID)
	if err != nil {
		return err
	}
	return domain.Require(actor, event, c)
}

func (s *PollService) CreatePoll(ctx context.Context, actor *entities.User, eventID uint, question string) (*entities.Poll, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrMissingField
	}
	var poll *entities.Poll
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.repos.Events.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		if err := domain.Require(actor, event, domain.CanManageVoting); err != nil {
			return err
		}
		now := s.clock.Now()
		poll = &entities.Poll{
			EventID:   eventID,
			OwnerID:   actor.ID,
			Question:  question,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.repos.Polls.Create(ctx, poll)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("poll created", "poll_id", poll.ID, "event_id", eventID, "actor_id", actor.ID)
	return poll, nil
}

func (s *PollService) GetPoll(ctx context.Context, actor *entities.User, id uint) (*entities.Poll, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	poll, err := s.repos.Polls.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, poll, domain.CanViewPollInfo); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *PollService) ListPolls(ctx context.Context, actor *entities.User, eventID uint) ([]entities.Poll, error) {
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
	return s.repos.Polls.ListByEventID(ctx, eventID)
}

// RenamePoll is gated on ownership of the poll, not of its event. Run state is untouched.
func (s *PollService) RenamePoll(ctx context.Context, actor *entities.User, id uint, question string) (*entities.Poll, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrMissingField
	}
	var poll *entities.Poll
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		poll, err = s.repos.Polls.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !domain.CanRenamePoll(actor, poll) {
			return domain.ErrNotPollOwner
		}
		poll.Question = question
		poll.UpdatedAt = s.clock.Now()
		return s.repos.Polls.Update(ctx, poll)
	})
	if err != nil {
		return nil, err
	}
	return poll, nil
}

// SetPollState starts or stops a poll. A zero stopAt means "not provided".
func (s *PollService) SetPollState(ctx context.Context, actor *entities.User, id uint, isRunning bool, stopAt time.Time) (*entities.Poll, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var poll *entities.Poll
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		poll, err = s.repos.Polls.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, actor, poll, domain.CanManageVoting); err != nil {
			return err
		}
		if err := domain.ApplyPollState(poll, isRunning, stopAt, s.clock.Now()); err != nil {
			return err
		}
		return s.repos.Polls.Update(ctx, poll)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("poll state changed", "poll_id", id, "state", domain.StateOf(poll).String(), "actor_id", actor.ID)
	return poll, nil
}

func (s *PollService) DeletePoll(ctx context.Context, actor *entities.User, id uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		poll, err := s.repos.Polls.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, actor, poll, domain.CanManageVoting); err != nil {
			return err
		}
		return s.repos.Polls.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("poll deleted", "poll_id", id, "actor_id", actor.ID)
	return nil
}

// editOptions locks the poll and checks that its options may change.
func (s *PollService) editOptions(ctx context.Context, actor *entities.User, pollID uint) error {
	poll, err := s.repos.Polls.FindByIDForUpdate(ctx, pollID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, poll, domain.CanManageVoting); err != nil {
		return err
	}
	return domain.ValidatePollOperation(poll, domain.PollOpEditOptions)
}

func (s *PollService) CreateAnswerOption(ctx context.Context, actor *entities.User, pollID uint, text string) (*entities.AnswerOption, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrMissingField
	}
	option := &entities.AnswerOption{PollID: pollID, Text: text}
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.editOptions(ctx, actor, pollID); err != nil {
			return err
		}
		return s.repos.AnswerOptions.Create(ctx, option)
	})
	if err != nil {
		return nil, err
	}
	return option, nil
}

func (s *PollService) UpdateAnswerOption(ctx context.Context, actor *entities.User, id uint, text string) (*entities.AnswerOption, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrMissingField
	}
	var option *entities.AnswerOption
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		option, err = s.repos.AnswerOptions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.editOptions(ctx, actor, option.PollID); err != nil {
			return err
		}
		option.Text = text
		return s.repos.AnswerOptions.Update(ctx, option)
	})
	if err != nil {
		return nil, err
	}
	return option, nil
}

// DeleteAnswerOption refuses options that any answer still points to.
func (s *PollService) DeleteAnswerOption(ctx context.Context, actor *entities.User, id uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		option, err := s.repos.AnswerOptions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.editOptions(ctx, actor, option.PollID); err != nil {
			return err
		}
		n, err := s.repos.Answers.CountByOptionID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrAnswerOptionInUse
		}
		return s.repos.AnswerOptions.Delete(ctx, id)
	})
}

func (s *PollService) ListAnswerOptions(ctx context.Context, actor *entities.User, pollID uint) ([]entities.AnswerOption, error) {
	if _, err := s.GetPoll(ctx, actor, pollID); err != nil {
		return nil, err
	}
	return s.repos.AnswerOptions.ListByPollID(ctx, pollID)
}

func (s *PollService) ListAnswerOptionsForEvent(ctx context.Context, actor *entities.User, eventID uint) ([]entities.AnswerOption, error) {
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
	return s.repos.AnswerOptions.ListByEventID(ctx, eventID)
}
