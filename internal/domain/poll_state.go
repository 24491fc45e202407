package domain

import (
	"time"

	"eventpoll/internal/domain/entities"
)

// PollState is derived from is_running and started_at.
type PollState int

const (
	PollCreated PollState = iota
	PollRunning
	PollStopped
)

func (s PollState) String() string {
	switch s {
	case PollCreated:
		return "created"
	case PollRunning:
		return "running"
	case PollStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

func StateOf(p *entities.Poll) PollState {
	switch {
	case p.IsRunning:
		return PollRunning
	case !p.StartedAt.IsZero():
		return PollStopped
	default:
		return PollCreated
	}
}

// PollOperation is a category of poll operation for lifecycle checks.
type PollOperation int

const (
	PollOpEditOptions PollOperation = iota
	PollOpVote
)

// ValidatePollOperation ensures the poll state allows op.
func ValidatePollOperation(p *entities.Poll, op PollOperation) error {
	state := StateOf(p)
	switch {
	case op == PollOpEditOptions && state == PollRunning:
		return ErrPollRunning
	case op == PollOpVote && state != PollRunning:
		return ErrPollNotRunning
	}
	return nil
}

// ApplyPollState moves p to the requested run state. Starting requires a
// stop_at strictly after now; stopping keeps the current deadline unless a
// new one is given.
func ApplyPollState(p *entities.Poll, isRunning bool, stopAt time.Time, now time.Time) error {
	if isRunning {
		if stopAt.IsZero() {
			return ErrStopAtRequired
		}
		if !stopAt.After(now) {
			return ErrStopAtInPast
		}
		if !p.IsRunning {
			p.StartedAt = now
		}
		p.IsRunning = true
		p.StopAt = stopAt
		p.UpdatedAt = now
		return nil
	}
	p.IsRunning = false
	if !stopAt.IsZero() {
		p.StopAt = stopAt
	}
	p.UpdatedAt = now
	return nil
}
