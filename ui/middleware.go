package ui

import (
	"fmt"
	"net/http"

	"biodash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogger(s.logger))

	static, err := staticFS()
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(static))
	return nil
}

func (s *Server) requireDataset() gin.HandlerFunc {
	return middleware.RequireDataset(s.provider)
}
