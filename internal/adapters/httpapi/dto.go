package httpapi

import (
	"time"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
)

type loginRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name"`
	IsSuperuser bool   `json:"is_superuser"`
}

type userResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

func toUserResponse(u entities.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, IsActive: u.IsActive, IsSuperuser: u.IsSuperuser}
}

type eventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type eventResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	OwnerID          uint      `json:"owner_id"`
	Participants     []uint    `json:"participants"`
	AccessModerators []uint    `json:"access_moderators"`
	VotingModerators []uint    `json:"voting_moderators"`
	CreatedAt        time.Time `json:"created_at"`
}

func toEventResponse(e entities.Event) eventResponse {
	return eventResponse{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		OwnerID:          e.OwnerID,
		Participants:     e.Participants.IDs(),
		AccessModerators: e.AccessModerators.IDs(),
		VotingModerators: e.VotingModerators.IDs(),
		CreatedAt:        e.CreatedAt,
	}
}

type accessGrantResponse struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	GivenByID    uint      `json:"given_by_id"`
	ReceivedByID uint      `json:"received_by_id"`
	GrantedAt    time.Time `json:"granted_at"`
}

func toAccessGrantResponse(g entities.AccessGrant) accessGrantResponse { return accessGrantResponse(g) }

type pollCreateRequest struct {
	EventID  uint   `json:"event_id" binding:"required"`
	Question string `json:"question" binding:"required"`
}

type pollQuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

type pollStateRequest struct {
	IsRunning bool       `json:"is_running"`
	StopAt    *time.Time `json:"stop_at"`
}

type pollResponse struct {
	ID        uint       `json:"id"`
	EventID   uint       `json:"event_id"`
	OwnerID   uint       `json:"owner_id"`
	Question  string     `json:"question"`
	IsRunning bool       `json:"is_running"`
	State     string     `json:"state"`
	StopAt    *time.Time `json:"stop_at"`
	StartedAt *time.Time `json:"started_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toPollResponse(p entities.Poll) pollResponse {
	return pollResponse{
		ID:        p.ID,
		EventID:   p.EventID,
		OwnerID:   p.OwnerID,
		Question:  p.Question,
		IsRunning: p.IsRunning,
		State:     domain.StateOf(&p).String(),
		StopAt:    optionalTime(p.StopAt),
		StartedAt: optionalTime(p.StartedAt),
		CreatedAt: p.CreatedAt,
	}
}

type optionCreateRequest struct {
	PollID uint   `json:"poll_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type optionUpdateRequest struct {
	Text string `json:"text" binding:"required"`
}

type optionResponse struct {
	ID     uint   `json:"id"`
	PollID uint   `json:"poll_id"`
	Text   string `json:"text"`
}

type answerCreateRequest struct {
	PollID         uint `json:"poll_id" binding:"required"`
	AnswerOptionID uint `json:"answer_option_id" binding:"required"`
}

type answerUpdateRequest struct {
	AnswerOptionID uint `json:"answer_option_id" binding:"required"`
}

type answerResponse struct {
	ID             uint      `json:"id"`
	PollID         uint      `json:"poll_id"`
	OwnerID        uint      `json:"owner_id"`
	AnswerOptionID uint      `json:"answer_option_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toAnswerResponse(a entities.Answer) answerResponse {
	return answerResponse{
		ID:             a.ID,
		PollID:         a.PollID,
		OwnerID:        a.OwnerID,
		AnswerOptionID: a.AnswerOptionID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
