// Package devserver is a local in-memory stand-in for the todos REST
// resource, for working without the public placeholder API.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/idilsaglam/todotable/internal/logging"
	"github.com/idilsaglam/todotable/internal/model"
)

// Server serves GET/POST /todos and GET/PUT/DELETE /todos/:id.
type Server struct {
	e   *echo.Echo
	log *slog.Logger

	mu     sync.Mutex
	todos  []model.Todo
	nextID int
}

// New creates a server holding seed. New ids continue after the largest seed id.
func New(seed []model.Todo, log *slog.Logger) *Server {
	s := &Server{
		e:     echo.New(),
		log:   logging.Component(log, "devserver"),
		todos: append([]model.Todo(nil), seed...),
	}
	for _, t := range seed {
		if t.ID > s.nextID {
			s.nextID = t.ID
		}
	}
	s.nextID++

	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.RequestID())
	s.e.Use(s.requestLogger)

	s.e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	g := s.e.Group("/todos")
	g.GET("", s.list)
	g.POST("", s.create)
	g.GET("/:id", s.get)
	g.PUT("/:id", s.update)
	g.DELETE("/:id", s.remove)
	return s
}

// Seed generates n todos, every third one completed.
func Seed(n int) []model.Todo {
	out := make([]model.Todo, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Todo{ID: i, Title: fmt.Sprintf("todo %d", i), Completed: i%3 == 0})
	}
	return out
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.e }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info("listening", "addr", addr)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.log.Debug("request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return nil
	}
}

// body is what clients send; ids in the body are ignored.
type body struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (b body) todo(id int) (model.Todo, error) {
	if b.Title == nil || b.Completed == nil {
		return model.Todo{}, echo.NewHTTPError(http.StatusBadRequest, "title and completed are required")
	}
	return model.Todo{ID: id, Title: *b.Title, Completed: *b.Completed}, nil
}

func (s *Server) list(c echo.Context) error {
	s.mu.Lock()
	out := append([]model.Todo{}, s.todos...)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, out)
}

func (s *Server) get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, s.todos[i])
}

func (s *Server) create(c echo.Context) error {
	var b body
	if err := c.Bind(&b); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := b.todo(s.nextID)
	if err != nil {
		return err
	}
	s.nextID++
	s.todos = append(s.todos, t)
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var b body
	if err := c.Bind(&b); err != nil {
		return err
	}
	t, err := b.todo(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s.todos[i] = t
	return c.JSON(http.StatusOK, t)
}

func (s *Server) remove(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	return c.JSON(http.StatusOK, map[string]any{})
}

func (s *Server) index(id int) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func idParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a number")
	}
	return id, nil
}
