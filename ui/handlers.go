package ui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"biodash/internal/errors"

	"github.com/gin-gonic/gin"
)

// selectRequest is the body of POST /api/selection; form values work too.
type selectRequest struct {
	Index json.Number `json:"index" form:"index"`
}

// handleIndex serves the dashboard for ?index= or the current selection
func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, c.Query("index"))
}

// handleSubject is the selection event of the subject selector
func (s *Server) handleSubject(c *gin.Context) {
	s.renderPage(c, c.Param("index"))
}

func (s *Server) renderPage(c *gin.Context, raw string) {
	page, err := s.service.Page(raw)
	if err != nil {
		s.writeError(c, err)
		return
	}
	// an unloaded dataset still gets the unpopulated page
	s.renderTemplate(c, http.StatusOK, "index.html", page)
}

func (s *Server) handleReport(c *gin.Context) {
	r, err := s.service.Report(c.Param("index"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if strings.Contains(c.GetHeader("Accept"), "text/markdown") {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(r.Markdown))
		return
	}
	s.renderTemplate(c, http.StatusOK, "report.html", reportPage{
		Report: r,
		Body:   template.HTML(r.HTML()),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	h := s.service.Health()
	status := http.StatusOK
	if h.Subjects == 0 {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, h)
}

func (s *Server) handleSubjects(c *gin.Context) {
	options, err := s.service.Subjects()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": options})
}

func (s *Server) handleCurrentSelection(c *gin.Context) {
	dash, err := s.service.Current()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (s *Server) handleSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBind(&req); err != nil {
		s.writeError(c, errors.InvalidInput("selection body must carry an index"))
		return
	}
	sel, err := s.service.Select(req.Index.String())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dashboard":    sel.Dashboard,
		"demographics": sel.Demographics,
	})
}

func (s *Server) handleSpec(c *gin.Context) {
	index, kind := c.Param("index"), c.Param("kind")
	if kind == "dashboard" {
		dash, err := s.service.Dashboard(index)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dash)
		return
	}

	spec, err := s.service.Spec(index, kind)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

// handleChart serves /charts/:index/<kind>.<html|png>
func (s *Server) handleChart(c *gin.Context) {
	kind, format, ok := strings.Cut(c.Param("chart"), ".")
	if !ok {
		s.writeError(c, errors.InvalidInput("chart must be named <kind>.<html|png>"))
		return
	}
	body, contentType, err := s.service.RenderChart(c.Request.Context(), c.Param("index"), kind, format)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, body)
}
