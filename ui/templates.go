package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"biodash/internal"
	"biodash/internal/report"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/css/*.css
var embeddedFiles embed.FS

// reportPage is the template data of report.html
type reportPage struct {
	Report *report.Report
	Body   template.HTML
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return templates, nil
}

func staticFS() (fs.FS, error) {
	return fs.Sub(embeddedFiles, "static")
}

// executeTemplate renders to a buffer so a failing template never leaves a
// half-written response.
func executeTemplate(templates *template.Template, logger *internal.Logger, name string, data interface{}) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("template %s failed for %T: %v", name, data, err)
		return nil, err
	}
	if !strings.Contains(buf.String(), "</html>") {
		logger.Warn("rendered template %s appears truncated: missing </html>", name)
	}
	return &buf, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	buf, err := executeTemplate(s.templates, s.logger, templateName, data)
	if err != nil {
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
