package server

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

func (s *Server) setupRoutes() error {
	gin.SetMode(s.ginMode)
	s.router = gin.New()

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	s.router.SetHTMLTemplate(tmpl)

	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(s.maxBodySizeMiddleware())
	s.router.Use(s.rateLimitMiddleware())

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/api/stats", s.getStatsData)

	// Session-scoped routes
	page := s.router.Group("/")
	page.Use(s.sessionMiddleware())
	{
		page.GET("/", s.showSidebar)
		page.POST("/logout", s.logout)
		page.POST("/clear", s.clearChatHistory)
		page.POST("/preferences", s.updatePreferences)
	}

	api := s.router.Group("/api")
	api.Use(s.corsMiddleware())
	api.Use(s.sessionMiddleware())
	{
		api.GET("/sidebar", s.sidebarJSON)
		api.POST("/logout", s.logoutJSON)
	}

	return nil
}
