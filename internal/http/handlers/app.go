package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"bloodlink/internal/admin"
	"bloodlink/internal/export"
	"bloodlink/internal/infra"
	"bloodlink/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options wires the handler container.
type Options struct {
	Admin       *admin.Service
	Auth        *admin.Authenticator
	Logger      *infra.Logger
	SQL         infra.SQLExecutor
	DatabaseURL string
	AppEnv      string
	DataSource  string
	CSV         export.CSVWriter
	Now         func() time.Time
}

type App struct {
	Admin       *admin.Service
	Auth        *admin.Authenticator
	Logger      *infra.Logger
	SQL         infra.SQLExecutor
	DatabaseURL string
	AppEnv      string
	DataSource  string
	CSV         export.CSVWriter

	templates *template.Template
	now       func() time.Time
}

func NewApp(opts Options) (*App, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		nop := infra.NopLogger()
		logger = &nop
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &App{
		Admin:       opts.Admin,
		Auth:        opts.Auth,
		Logger:      logger,
		SQL:         opts.SQL,
		DatabaseURL: opts.DatabaseURL,
		AppEnv:      opts.AppEnv,
		DataSource:  opts.DataSource,
		CSV:         opts.CSV,
		templates:   tmpl,
		now:         now,
	}, nil
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

// render executes a page template into a buffer first so a template error
// never leaves a half-written page.
func (a *App) render(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.Logger.Error().Err(err).Str("template", name).Msg("render page failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// page is the data every admin template receives.
type page struct {
	Title  string
	Active string
	Viewer middleware.Viewer
	Data   any
}

func (a *App) newPage(r *http.Request, title, active string, data any) page {
	return page{
		Title:  title,
		Active: active,
		Viewer: middleware.ViewerFromContext(r.Context()),
		Data:   data,
	}
}

var templateFuncs = template.FuncMap{
	"shortDate": func(t time.Time, v middleware.Viewer) string {
		if t.IsZero() {
			return ""
		}
		return t.In(v.Location).Format(export.ShortDateLayout(v.Locale))
	},
	"dateTime": func(t time.Time, v middleware.Viewer) string {
		if t.IsZero() {
			return ""
		}
		return t.In(v.Location).Format(export.ShortDateLayout(v.Locale) + " 15:04:05")
	},
}
