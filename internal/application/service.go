package application

import (
	"log/slog"
	"time"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

const defaultPageLimit = 100

// Repositories bundles the persistence ports shared by the services.
type Repositories struct {
	Users         output.UserRepository
	Events        output.EventRepository
	AccessGrants  output.AccessGrantRepository
	Polls         output.PollRepository
	AnswerOptions output.AnswerOptionRepository
	Answers       output.AnswerRepository
	Tx            output.Transactor
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func clockOrSystem(c output.Clock) output.Clock {
	if c == nil {
		return systemClock{}
	}
	return c
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

func requireActor(actor *entities.User) error {
	if actor == nil || actor.ID == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

func pageLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	return limit
}
