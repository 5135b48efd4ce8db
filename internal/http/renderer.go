package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
)

// templatePatterns are the globs parsed from the template filesystem.
var templatePatterns = []string{"*.tmpl", "pages/*.tmpl"} //nolint:gochecknoglobals // static configuration

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	fsys    fs.FS
	devMode bool
	logger  *slog.Logger

	mu sync.RWMutex
	t  *template.Template
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing layout.tmpl and pages/ (required)
	DevMode    bool         // Re-parse templates before every render
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	r := &TemplateRenderer{fsys: cfg.TemplateFS, devMode: cfg.DevMode, logger: cfg.Logger}
	t, err := r.parse()
	if err != nil {
		r.log().Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	r.t = t
	return r, nil
}

func (r *TemplateRenderer) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// parse reads every pattern that matches at least one file. A set without a pages/
// directory still parses; pages missing at render time fall back to the not-found content.
func (r *TemplateRenderer) parse() (*template.Template, error) {
	patterns := make([]string, 0, len(templatePatterns))
	for _, p := range templatePatterns {
		matches, err := fs.Glob(r.fsys, p)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", p, err)
		}
		if len(matches) > 0 {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, errors.New("parse templates: no template files found")
	}

	var t *template.Template
	t, err := template.New("root").Funcs(templateFuncs(&t)).ParseFS(r.fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// templates returns the parsed set, re-reading it from disk in dev mode.
func (r *TemplateRenderer) templates() (*template.Template, error) {
	if r.devMode {
		t, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.t = t
		r.mu.Unlock()
		return t, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.t, nil
}

// RenderFull renders the full page (layout + page content) with status 200.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, renderParams{name: "layout", status: http.StatusOK, data: data})
}

// RenderStatus renders the full page with the given status code.
func (r *TemplateRenderer) RenderStatus(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderParams{name: "layout", status: status, data: data})
}

type renderParams struct {
	name   string
	status int
	data   any
}

// renderTemplate executes into a buffer first so a failing template never leaves a half-written page.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, p renderParams) error {
	t, err := r.templates()
	if err != nil {
		r.logTemplateError(p.name, err)
		return err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, p.name, p.data); err != nil {
		r.logTemplateError(p.name, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.status)
	if _, err := buf.WriteTo(w); err != nil {
		r.log().Error("failed to write rendered template",
			slog.String("template", p.name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	r.log().Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}

// templateFuncs builds the FuncMap. t is filled in after parsing so renderContent can look up
// the page template by name at execution time.
func templateFuncs(t **template.Template) template.FuncMap {
	return template.FuncMap{
		"renderContent": func(page string, data any) (template.HTML, error) {
			if t == nil || *t == nil {
				return "", errors.New("templates not initialised")
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
				return "", err
			}
			//nolint:gosec // output of html/template execution is already escaped
			return template.HTML(buf.String()), nil
		},
		"staticURL": func(path string) string {
			return "/static/" + path
		},
	}
}
