package entities

import "time"

// Poll is a single question bound to one event.
type Poll struct {
	ID        uint
	EventID   uint
	OwnerID   uint
	Question  string
	IsRunning bool
	StopAt    time.Time // zero = not set
	StartedAt time.Time // zero = never started
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnswerOption is one discrete choice of a poll.
type AnswerOption struct {
	ID     uint
	PollID uint
	Text   string
}
