// Package httpapi exposes a Queue over HTTP for inspection and control.
package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	tq "github.com/azargarov/taskqueue"
)

// Response is the envelope used by every endpoint that does not return a
// listing.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

// Server holds the handlers bound to one queue.
type Server struct {
	q *tq.Queue
}

func New(q *tq.Queue) *Server {
	return &Server{q: q}
}

// RegisterRoutes registers all HTTP routes for the server.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/v1")

	g.GET("/tasks", s.handleListPending)
	g.POST("/tasks", s.handleEnqueue)
	g.GET("/tasks/running", s.handleListRunning)
	g.DELETE("/tasks/running/:id", s.handleCancelRunning)
	g.POST("/tasks/:id/cancel", s.handleCancel)
	g.POST("/tasks/:id/run", s.handleExecuteNow)
	g.DELETE("/tasks/:id", s.handleRemove)
	g.GET("/stats", s.handleStats)
}

func (s *Server) handleListPending(c echo.Context) error {
	return c.JSON(http.StatusOK, s.q.Pending())
}

func (s *Server) handleListRunning(c echo.Context) error {
	return c.JSON(http.StatusOK, s.q.Running())
}

func (s *Server) handleEnqueue(c echo.Context) error {
	var req EnqueueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Response{Message: "Invalid request format"})
	}
	fn, err := req.workFunc()
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{Message: err.Error()})
	}

	desc := req.Description
	if desc == "" {
		desc = req.Kind
	}
	id, err := s.q.Enqueue(fn, desc)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, Response{Message: err.Error()})
	}
	return c.JSON(http.StatusAccepted, Response{Success: true, ID: id.String()})
}

func (s *Server) handleCancel(c echo.Context) error {
	return s.byID(c, s.q.Cancel, "Cancellation requested")
}

func (s *Server) handleRemove(c echo.Context) error {
	return s.byID(c, s.q.Remove, "Task removed")
}

func (s *Server) handleCancelRunning(c echo.Context) error {
	return s.byID(c, s.q.CancelRunning, "Running task cancelled")
}

func (s *Server) handleExecuteNow(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{Message: "Invalid task id"})
	}

	ran, err := s.q.ExecuteNow(c.Request().Context(), id)
	if !ran {
		return c.JSON(http.StatusNotFound, Response{ID: id.String(), Message: "Task not found in queue"})
	}
	if err != nil {
		return c.JSON(http.StatusOK, Response{ID: id.String(), Message: err.Error()})
	}
	return c.JSON(http.StatusOK, Response{Success: true, ID: id.String(), Message: "Task executed"})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, ok := s.q.Stats()
	if !ok {
		return c.JSON(http.StatusNotImplemented, Response{Message: "Metrics are disabled"})
	}
	return c.JSON(http.StatusOK, stats)
}

// byID parses the :id parameter and maps the boolean result of op to 200
// or 404.
func (s *Server) byID(c echo.Context, op func(uuid.UUID) bool, okMsg string) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{Message: "Invalid task id"})
	}
	if !op(id) {
		return c.JSON(http.StatusNotFound, Response{ID: id.String(), Message: "Task not found"})
	}
	return c.JSON(http.StatusOK, Response{Success: true, ID: id.String(), Message: okMsg})
}
