package ui

import (
	"encoding/json"
	"html/template"
	"net/http"

	"biodash/internal"
	"biodash/ui/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App is the lightweight chi rendition of the dashboard: the page and the
// JSON render spec, without chart rendering.
type App struct {
	router    *chi.Mux
	service   *services.DashboardService
	templates *template.Template
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates a new UI application
func NewApp(service *services.DashboardService, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	templates, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, err
	}

	app := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		logger:    logger.With("App"),
	}

	if err := app.setupMiddleware(); err != nil {
		return nil, err
	}
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() error {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	static, err := staticFS()
	if err != nil {
		return err
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	return nil
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/subjects/{index}", a.handleSubject)
	a.router.Get("/api/subjects/{index}/dashboard", a.handleDashboard)
}

// Handler exposes the router
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(config Config) error {
	port := config.Port
	if port == "" {
		port = "8080"
	}
	a.logger.Info("starting dashboard on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, r.URL.Query().Get("index"))
}

func (a *App) handleSubject(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, chi.URLParam(r, "index"))
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := a.service.Dashboard(chi.URLParam(r, "index"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, dash)
}

func (a *App) renderPage(w http.ResponseWriter, raw string) {
	page, err := a.service.Page(raw)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.renderTemplate(w, "index.html", page)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	buf, err := executeTemplate(a.templates, a.logger, templateName, data)
	if err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("writing %s: %v", templateName, err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status, body := services.StatusFor(err)
	a.writeJSON(w, status, body)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("encoding response: %v", err)
	}
}
