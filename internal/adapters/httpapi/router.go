// Package httpapi is the REST surface of the service. Handlers only bind
// input, call a use case and render the result.
package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"eventpoll/internal/ports/input"
	"eventpoll/internal/ports/output"
)

type Services struct {
	Identity input.IdentityUseCase
	Events   input.EventUseCase
	Polls    input.PollUseCase
	Answers  input.AnswerUseCase
}

type Server struct {
	svc    Services
	tr     output.Translator
	logger *slog.Logger
}

// NewRouter wires middleware and every /api/v1 route.
func NewRouter(svc Services, tr output.Translator, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, tr: tr, logger: logger}

	r := gin.New()
	r.Use(requestID(), s.logRequests(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(204) })

	api := r.Group("/api/v1")
	api.POST("/login", s.login)
	api.POST("/users/register", s.register)

	auth := api.Group("")
	auth.Use(s.authenticate())
	{
		auth.GET("/users/me", s.me)
		auth.GET("/users", s.listUsers)
		auth.POST("/users", s.createUser)
		auth.GET("/users/:id", s.getUser)

		auth.GET("/events", s.listEvents)
		auth.POST("/events", s.createEvent)
		auth.GET("/events/:id", s.getEvent)
		auth.PUT("/events/:id", s.updateEvent)
		auth.DELETE("/events/:id", s.deleteEvent)
		auth.PUT("/events/:id/participants/:user_id", s.addParticipant)
		auth.PUT("/events/:id/moderators/:kind/:user_id", s.addModerator)
		auth.GET("/events/:id/access-logs", s.listAccessLogs)
		auth.GET("/events/:id/polls", s.listPolls)
		auth.GET("/events/:id/answer-options", s.listEventAnswerOptions)
		auth.GET("/events/:id/answers", s.listEventAnswers)

		auth.POST("/polls", s.createPoll)
		auth.GET("/polls/:id", s.getPoll)
		auth.DELETE("/polls/:id", s.deletePoll)
		auth.PUT("/polls/:id/question", s.renamePoll)
		auth.PUT("/polls/:id/state", s.setPollState)
		auth.GET("/polls/:id/options", s.listAnswerOptions)
		auth.GET("/polls/:id/answers", s.listAnswers)
		auth.PUT("/polls/:id/answer", s.updateAnswer)

		auth.POST("/answer-options", s.createAnswerOption)
		auth.PUT("/answer-options/:id", s.updateAnswerOption)
		auth.DELETE("/answer-options/:id", s.deleteAnswerOption)

		auth.GET("/answers", s.listAllAnswers)
		auth.POST("/answers", s.submitAnswer)
		auth.DELETE("/answers/:id", s.deleteAnswer)
	}
	return r
}
