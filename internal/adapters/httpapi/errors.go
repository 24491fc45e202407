package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventpoll/internal/domain"
)

const (
	codeBadRequest    = "bad_request"
	codeInternalError = "internal_error"
)

var errBadRequest = errors.New("malformed request")

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	case domain.KindInvalidState, domain.KindConflict:
		return http.StatusConflict
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// abort renders err and stops the handler chain. Domain errors keep their
// kind and code; anything else is logged and hidden behind a 500.
func (s *Server) abort(c *gin.Context, err error) {
	kind, code := domain.KindOf(err), domain.Code(err)
	switch {
	case errors.Is(err, errBadRequest):
		kind, code = domain.KindValidation, codeBadRequest
	case kind == "":
		s.logger.Error("request failed", "error", err, "path", c.FullPath(), "request_id", c.GetString(requestIDKey))
		kind, code = "internal_error", codeInternalError
	}
	msg := s.tr.T(c.GetHeader("Accept-Language"), code, nil)
	if msg == code && kind != "internal_error" {
		msg = err.Error()
	}
	if kind == domain.KindUnauthenticated {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(statusFor(kind), errorResponse{Error: string(kind), Code: code, Message: msg})
}

func (s *Server) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		s.abort(c, errors.Join(errBadRequest, err))
		return false
	}
	return true
}

func (s *Server) uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		s.abort(c, errBadRequest)
		return 0, false
	}
	return uint(v), true
}

func (s *Server) uintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		s.abort(c, errBadRequest)
		return 0, false
	}
	return uint(v), true
}

// page reads skip and limit query parameters.
func (s *Server) page(c *gin.Context) (skip, limit int, ok bool) {
	sk, ok := s.uintQuery(c, "skip")
	if !ok {
		return 0, 0, false
	}
	li, ok := s.uintQuery(c, "limit")
	if !ok {
		return 0, 0, false
	}
	return int(sk), int(li), true
}
