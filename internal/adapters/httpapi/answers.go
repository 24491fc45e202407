package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) submitAnswer(c *gin.Context) {
	var req answerCreateRequest
	if !s.bind(c, &req) {
		return
	}
	a, err := s.svc.Answers.SubmitAnswer(c.Request.Context(), actor(c), req.PollID, req.AnswerOptionID)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAnswerResponse(*a))
}

// updateAnswer revises the caller's answer in the poll named by :id.
func (s *Server) updateAnswer(c *gin.Context) {
	pollID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	var req answerUpdateRequest
	if !s.bind(c, &req) {
		return
	}
	a, err := s.svc.Answers.UpdateAnswer(c.Request.Context(), actor(c), pollID, req.AnswerOptionID)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnswerResponse(*a))
}

func (s *Server) deleteAnswer(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Answers.DeleteAnswer(c.Request.Context(), actor(c), id); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listAnswers(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	answers, err := s.svc.Answers.ListAnswers(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(answers, toAnswerResponse))
}

func (s *Server) listEventAnswers(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	answers, err := s.svc.Answers.ListAnswersForEvent(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(answers, toAnswerResponse))
}

func (s *Server) listAllAnswers(c *gin.Context) {
	skip, limit, ok := s.page(c)
	if !ok {
		return
	}
	answers, err := s.svc.Answers.ListAllAnswers(c.Request.Context(), actor(c), skip, limit)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(answers, toAnswerResponse))
}
