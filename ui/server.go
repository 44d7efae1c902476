// Package ui serves the sample-size endpoints as a stateless JSON
// API.
package ui

import (
	"time"

	"github.com/gin-gonic/gin"

	"statdesign/app/sweep"
	"statdesign/internal"
	"statdesign/internal/config"
	"statdesign/ui/middleware"
)

// Server hosts the JSON API over the design endpoints.
type Server struct {
	router *gin.Engine
	sweeps *sweep.Service
	cfg    *config.Config
	logger *internal.Logger
}

// NewServer creates a server wired to the given configuration.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router: gin.New(),
		sweeps: sweep.NewService(cfg.Sweep.Concurrency),
		cfg:    cfg,
		logger: internal.DefaultLogger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(s.requestLogger())
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s -> %d (%s, request_id=%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start), c.GetString(middleware.ContextRequestID))
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	{
		n := v1.Group("/n")
		{
			n.POST("/two-prop", s.handleNTwoProp)
			n.POST("/one-sample-prop", s.handleNOneSampleProp)
			n.POST("/mean", s.handleNMean)
			n.POST("/one-sample-mean", s.handleNOneSampleMean)
			n.POST("/paired", s.handleNPaired)
			n.POST("/anova", s.handleNAnova)
		}
		survival := v1.Group("/survival")
		{
			survival.POST("/events-logrank", s.handleEventsLogrank)
			survival.POST("/events-cox", s.handleEventsCox)
			survival.POST("/events-to-n", s.handleEventsToN)
			survival.POST("/power", s.handlePowerLogrank)
		}
		adjust := v1.Group("/adjust")
		{
			adjust.POST("/alpha", s.handleAlphaAdjust)
			adjust.POST("/bh", s.handleBHThresholds)
		}
		v1.POST("/sweep", s.handleSweep)
	}
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start blocks serving on addr.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening on %s", addr)
	return s.router.Run(addr)
}
