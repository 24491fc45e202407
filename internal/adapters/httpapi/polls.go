package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventpoll/internal/domain/entities"
)

func toOptionResponse(o entities.AnswerOption) optionResponse { return optionResponse(o) }

func (s *Server) createPoll(c *gin.Context) {
	var req pollCreateRequest
	if !s.bind(c, &req) {
		return
	}
	p, err := s.svc.Polls.CreatePoll(c.Request.Context(), actor(c), req.EventID, req.Question)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPollResponse(*p))
}

func (s *Server) getPoll(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	p, err := s.svc.Polls.GetPoll(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toPollResponse(*p))
}

func (s *Server) listPolls(c *gin.Context) {
	eventID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	polls, err := s.svc.Polls.ListPolls(c.Request.Context(), actor(c), eventID)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(polls, toPollResponse))
}

func (s *Server) renamePoll(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	var req pollQuestionRequest
	if !s.bind(c, &req) {
		return
	}
	p, err := s.svc.Polls.RenamePoll(c.Request.Context(), actor(c), id, req.Question)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toPollResponse(*p))
}

func (s *Server) setPollState(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	var req pollStateRequest
	if !s.bind(c, &req) {
		return
	}
	var stopAt time.Time
	if req.StopAt != nil {
		stopAt = *req.StopAt
	}
	p, err := s.svc.Polls.SetPollState(c.Request.Context(), actor(c), id, req.IsRunning, stopAt)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toPollResponse(*p))
}

func (s *Server) deletePoll(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Polls.DeletePoll(c.Request.Context(), actor(c), id); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createAnswerOption(c *gin.Context) {
	var req optionCreateRequest
	if !s.bind(c, &req) {
		return
	}
	o, err := s.svc.Polls.CreateAnswerOption(c.Request.Context(), actor(c), req.PollID, req.Text)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOptionResponse(*o))
}

func (s *Server) updateAnswerOption(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	var req optionUpdateRequest
	if !s.bind(c, &req) {
		return
	}
	o, err := s.svc.Polls.UpdateAnswerOption(c.Request.Context(), actor(c), id, req.Text)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toOptionResponse(*o))
}

func (s *Server) deleteAnswerOption(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Polls.DeleteAnswerOption(c.Request.Context(), actor(c), id); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listAnswerOptions(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	opts, err := s.svc.Polls.ListAnswerOptions(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(opts, toOptionResponse))
}

func (s *Server) listEventAnswerOptions(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	opts, err := s.svc.Polls.ListAnswerOptionsForEvent(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(opts, toOptionResponse))
}
