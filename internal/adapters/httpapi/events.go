package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventpoll/internal/domain/entities"
)

func (s *Server) createEvent(c *gin.Context) {
	var req eventRequest
	if !s.bind(c, &req) {
		return
	}
	e, err := s.svc.Events.CreateEvent(c.Request.Context(), actor(c), req.Name, req.Description)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(*e))
}

func (s *Server) getEvent(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	e, err := s.svc.Events.GetEvent(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(*e))
}

func (s *Server) listEvents(c *gin.Context) {
	skip, limit, ok := s.page(c)
	if !ok {
		return
	}
	events, err := s.svc.Events.ListEvents(c.Request.Context(), actor(c), skip, limit)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(events, toEventResponse))
}

func (s *Server) updateEvent(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if !s.bind(c, &req) {
		return
	}
	e, err := s.svc.Events.UpdateEvent(c.Request.Context(), actor(c), id, req.Name, req.Description)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(*e))
}

func (s *Server) deleteEvent(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Events.DeleteEvent(c.Request.Context(), actor(c), id); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addParticipant(c *gin.Context) {
	eventID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	userID, ok := s.uintParam(c, "user_id")
	if !ok {
		return
	}
	e, err := s.svc.Events.AddParticipant(c.Request.Context(), actor(c), eventID, userID)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(*e))
}

func (s *Server) addModerator(c *gin.Context) {
	eventID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	userID, ok := s.uintParam(c, "user_id")
	if !ok {
		return
	}
	kind := entities.ModeratorKind(c.Param("kind"))
	e, err := s.svc.Events.AddModerator(c.Request.Context(), actor(c), eventID, userID, kind)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(*e))
}

func (s *Server) listAccessLogs(c *gin.Context) {
	eventID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	givenBy, ok := s.uintQuery(c, "given_by_id")
	if !ok {
		return
	}
	receivedBy, ok := s.uintQuery(c, "received_by_id")
	if !ok {
		return
	}
	skip, limit, ok := s.page(c)
	if !ok {
		return
	}
	grants, err := s.svc.Events.ListAccessLogs(c.Request.Context(), actor(c), eventID, entities.AccessGrantFilter{
		GivenByID:    givenBy,
		ReceivedByID: receivedBy,
		Skip:         skip,
		Limit:        limit,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(grants, toAccessGrantResponse))
}
