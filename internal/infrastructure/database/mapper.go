package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"eventpoll/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

type userRow struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	FullName     string    `db:"full_name"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	IsSuperuser  bool      `db:"is_superuser"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func userToDomain(r userRow) entities.User {
	return entities.User{
		ID:           uint(r.ID),
		Email:        r.Email,
		FullName:     r.FullName,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		IsSuperuser:  r.IsSuperuser,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type eventRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	OwnerID     int64     `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func eventToDomain(r eventRow) entities.Event {
	return entities.Event{
		ID:               uint(r.ID),
		Name:             r.Name,
		Description:      r.Description,
		OwnerID:          uint(r.OwnerID),
		Participants:     entities.NewUserSet(),
		AccessModerators: entities.NewUserSet(),
		VotingModerators: entities.NewUserSet(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

type memberRow struct {
	EventID int64  `db:"event_id"`
	UserID  int64  `db:"user_id"`
	Role    string `db:"role"`
}

type accessGrantRow struct {
	ID           int64     `db:"id"`
	EventID      int64     `db:"event_id"`
	GivenByID    int64     `db:"given_by_id"`
	ReceivedByID int64     `db:"received_by_id"`
	GrantedAt    time.Time `db:"granted_at"`
}

func accessGrantToDomain(r accessGrantRow) entities.AccessGrant {
	return entities.AccessGrant{
		ID:           uint(r.ID),
		EventID:      uint(r.EventID),
		GivenByID:    uint(r.GivenByID),
		ReceivedByID: uint(r.ReceivedByID),
		GrantedAt:    r.GrantedAt,
	}
}

type pollRow struct {
	ID        int64              `db:"id"`
	EventID   int64              `db:"event_id"`
	OwnerID   int64              `db:"owner_id"`
	Question  string             `db:"question"`
	IsRunning bool               `db:"is_running"`
	StopAt    pgtype.Timestamptz `db:"stop_at"`
	StartedAt pgtype.Timestamptz `db:"started_at"`
	CreatedAt time.Time          `db:"created_at"`
	UpdatedAt time.Time          `db:"updated_at"`
}

func pollToDomain(r pollRow) entities.Poll {
	return entities.Poll{
		ID:        uint(r.ID),
		EventID:   uint(r.EventID),
		OwnerID:   uint(r.OwnerID),
		Question:  r.Question,
		IsRunning: r.IsRunning,
		StopAt:    pgtypeTimestamptzToTime(r.StopAt),
		StartedAt: pgtypeTimestamptzToTime(r.StartedAt),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type answerOptionRow struct {
	ID     int64  `db:"id"`
	PollID int64  `db:"poll_id"`
	Text   string `db:"text"`
}

func answerOptionToDomain(r answerOptionRow) entities.AnswerOption {
	return entities.AnswerOption{ID: uint(r.ID), PollID: uint(r.PollID), Text: r.Text}
}

type answerRow struct {
	ID             int64     `db:"id"`
	PollID         int64     `db:"poll_id"`
	OwnerID        int64     `db:"owner_id"`
	AnswerOptionID int64     `db:"answer_option_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func answerToDomain(r answerRow) entities.Answer {
	return entities.Answer{
		ID:             uint(r.ID),
		PollID:         uint(r.PollID),
		OwnerID:        uint(r.OwnerID),
		AnswerOptionID: uint(r.AnswerOptionID),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// collect maps every row of rows through toDomain.
func collect[R, T any](rows []R, toDomain func(R) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomain(r))
	}
	return out
}
