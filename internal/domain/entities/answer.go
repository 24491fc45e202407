package entities

import "time"

// Answer is a user's vote in a poll. Revisions update the row in place.
type Answer struct {
	ID             uint
	PollID         uint
	OwnerID        uint
	AnswerOptionID uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
