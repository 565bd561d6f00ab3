package ui

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"biodash/internal"
	"biodash/ui/services"

	"github.com/gin-gonic/gin"
)

// Server represents the dashboard web server
type Server struct {
	router    *gin.Engine
	service   *services.DashboardService
	provider  services.Provider
	templates *template.Template
	logger    *internal.Logger
	http      *http.Server
}

// NewServer creates the web server and registers every route
func NewServer(provider services.Provider, service *services.DashboardService, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	templates, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		service:   service,
		provider:  provider,
		templates: templates,
		logger:    logger.With("Server"),
	}
	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Dashboard pages
	s.router.GET("/", s.handleIndex)
	s.router.GET("/subjects/:index", s.handleSubject)
	s.router.GET("/subjects/:index/report", s.handleReport)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api", s.requireDataset())
	api.GET("/subjects", s.handleSubjects)
	api.GET("/selection", s.handleCurrentSelection)
	api.POST("/selection", s.handleSelect)
	// :kind is "dashboard" or one of demographics, bar, gauge, scatter
	api.GET("/subjects/:index/:kind", s.handleSpec)

	charts := s.router.Group("/charts", s.requireDataset())
	charts.GET("/:index/:chart", s.handleChart)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting dashboard on http://%s", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// writeError sends the JSON error body for err
func (s *Server) writeError(c *gin.Context, err error) {
	status, body := services.StatusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, body)
}
