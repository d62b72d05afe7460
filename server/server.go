// Package server exposes the agent over HTTP: a batch /query endpoint, a
// streaming /ws endpoint and a health probe.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarib95965/llm-agent/agent"
	"github.com/sarib95965/llm-agent/logging"
)

// Options configure the server.
type Options struct {
	// Logger defaults to a NoOpLogger if nil.
	Logger logging.Logger
}

// Server routes HTTP traffic to a single shared Agent.
type Server struct {
	agent  *agent.Agent
	engine *gin.Engine
	logger logging.Logger
}

// New creates a Server with its routes registered.
func New(a *agent.Agent, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{agent: a, engine: engine, logger: opts.Logger}

	engine.GET("/healthz", s.handleHealth)
	engine.POST("/query", s.handleQuery)
	engine.GET("/ws", s.handleWS)

	return s
}

// Handler returns the http.Handler to mount on an http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

type queryRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleQuery runs the full pipeline and returns the assembled answer. Tool
// failures are part of the answer body; only an inference failure maps to 500.
func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "field 'prompt' is required"})
		return
	}

	answer, err := s.agent.Respond(c.Request.Context(), req.Prompt)
	if err != nil {
		s.logger.Error("query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, answer)
}
