// Package server implements the remote document store: a singleton
// application document with merge-write semantics, an attachment
// collection with atomic batch reconciliation, and a websocket watch
// channel notifying every connected client on each document write.
package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/existflow/controlcentre/internal/logger"
)

// Config configures the server.
type Config struct {
	// DatabaseURL selects the backend: a postgres:// URL uses PostgreSQL,
	// anything else is treated as a SQLite file path.
	DatabaseURL string
	// Token, when set, is required as a bearer token on every API call.
	Token string
}

// Server is the document store server.
type Server struct {
	db    *sql.DB
	echo  *echo.Echo
	hub   *hub
	token string
}

// New creates a server, opens the database, and runs migrations.
func New(cfg Config) (*Server, error) {
	db, err := openDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		db:    db,
		hub:   newHub(),
		token: cfg.Token,
	}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	s.setupEcho()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")
	api.Use(s.authMiddleware)
	api.GET("/document", s.handleGetDocument)
	api.PUT("/document", s.handlePutDocument)
	api.GET("/attachments", s.handleListAttachments)
	api.GET("/attachments/ids", s.handleAttachmentIDs)
	api.POST("/attachments/batch", s.handleAttachmentBatch)
	api.GET("/watch", s.handleWatch)

	s.echo = e
}

// authMiddleware enforces the shared bearer token when one is configured.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.token == "" {
			return next(c)
		}
		if c.Request().Header.Get("Authorization") != "Bearer "+s.token {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(c)
	}
}

// Close shuts down the watch hub and the database connection.
func (s *Server) Close() error {
	s.hub.close()
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
