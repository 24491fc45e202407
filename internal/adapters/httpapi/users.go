package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventpoll/internal/ports/input"
)

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !s.bind(c, &req) {
		return
	}
	token, err := s.svc.Identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) register(c *gin.Context) {
	var req userRequest
	if !s.bind(c, &req) {
		return
	}
	u, err := s.svc.Identity.Register(c.Request.Context(), input.RegisterUser{
		Email: req.Email, Password: req.Password, FullName: req.FullName,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(*u))
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(*actor(c)))
}

func (s *Server) createUser(c *gin.Context) {
	var req userRequest
	if !s.bind(c, &req) {
		return
	}
	u, err := s.svc.Identity.CreateUser(c.Request.Context(), actor(c), input.RegisterUser(req))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(*u))
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	u, err := s.svc.Identity.GetUser(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*u))
}

func (s *Server) listUsers(c *gin.Context) {
	skip, limit, ok := s.page(c)
	if !ok {
		return
	}
	users, err := s.svc.Identity.ListUsers(c.Request.Context(), actor(c), skip, limit)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(users, toUserResponse))
}
