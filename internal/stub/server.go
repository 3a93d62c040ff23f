// Package stub is an in-memory implementation of the entity service
// contract, used for offline development (quill stub) and for integration
// tests. It honors the same semantics the client depends on: canonical
// entity responses with server-assigned IDs and order values, dense
// renumbering on reorder, the era delete cascade, wholesale world updates,
// and structured error bodies with a message field.
// See docs/ARCHITECTURE.md § Stub Service.
package stub

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/quill/pkg/types"
)

// Server serves the entity service contract over one user's graph.
type Server struct {
	echo  *echo.Echo
	graph *graph
	token string
	log   zerolog.Logger
}

// New builds a stub service seeded with data. When token is non-empty every
// request must carry it as a bearer token.
func New(data *types.UserData, token string, log zerolog.Logger) *Server {
	s := &Server{
		echo:  echo.New(),
		graph: &graph{data: data},
		token: token,
		log:   log,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.routes()
	return s
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until the process ends or the listener fails.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("stub entity service listening")
	return s.echo.Start(addr)
}

func (s *Server) routes() {
	e := s.echo
	if s.token != "" {
		e.Use(s.requireToken)
	}

	e.GET("/me/data", s.handleUserData)

	// Both reorder endpoints are registered before the generic :id routes;
	// echo prefers static segments, so "reorder" never binds as an ID.
	e.PUT("/projects/:project/eras/reorder", s.handleReorderEras)
	e.PUT("/projects/:project/eras/:id/events/reorder", s.handleReorderEvents)

	for _, kind := range types.Kinds {
		k := kind
		e.POST("/projects/:project/"+string(k), func(c echo.Context) error {
			return s.handleCreate(c, k)
		})
		e.PUT("/projects/:project/"+string(k)+"/:id", func(c echo.Context) error {
			return s.handleUpdate(c, k)
		})
		e.DELETE("/projects/:project/"+string(k)+"/:id", func(c echo.Context) error {
			return s.handleDelete(c, k)
		})
	}
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") != "Bearer "+s.token {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing or invalid token"})
		}
		return next(c)
	}
}

func (s *Server) handleUserData(c echo.Context) error {
	data, err := s.graph.userData()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (s *Server) handleCreate(c echo.Context, kind types.Kind) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return s.fail(c, types.ErrInvalidData)
	}
	created, err := s.graph.create(c.Param("project"), kind, body)
	if err != nil {
		return s.fail(c, err)
	}
	s.log.Debug().Str("kind", string(kind)).Msg("entity created")
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdate(c echo.Context, kind types.Kind) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return s.fail(c, types.ErrInvalidData)
	}
	updated, err := s.graph.update(c.Param("project"), kind, c.Param("id"), body)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDelete(c echo.Context, kind types.Kind) error {
	if err := s.graph.delete(c.Param("project"), kind, c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleReorderEras(c echo.Context) error {
	var req struct {
		OrderedIDs []string `json:"orderedIds"`
	}
	if err := c.Bind(&req); err != nil {
		return s.fail(c, types.ErrInvalidData)
	}
	eras, err := s.graph.reorderEras(c.Param("project"), req.OrderedIDs)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, eras)
}

func (s *Server) handleReorderEvents(c echo.Context) error {
	var req struct {
		OrderedIDs []string `json:"orderedIds"`
	}
	if err := c.Bind(&req); err != nil {
		return s.fail(c, types.ErrInvalidData)
	}
	timeline, err := s.graph.reorderEvents(c.Param("project"), c.Param("id"), req.OrderedIDs)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, timeline)
}

// fail maps graph errors onto the service's structured error shape.
func (s *Server) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrProjectNotFound),
		errors.Is(err, types.ErrUnknownEra):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrOrderMismatch),
		errors.Is(err, types.ErrInvalidData):
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, echo.Map{"message": err.Error()})
}
