package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

func templateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// parseTemplate parses a template from the embedded filesystem
func parseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(templateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}

type pageData struct {
	AppName   string
	Subreddit string
}

// PageHandler serves one of the embedded browser pages shown between
// OAuth steps.
func (s *Server) PageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl, err := parseTemplate(name)
		if err != nil {
			log.Err(err).Str("template", name).Msg("Failed to parse template")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}

		data := pageData{
			AppName:   s.config.GetAppName(),
			Subreddit: r.URL.Query().Get("subreddit"),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Str("template", name).Msg("Failed to render template")
		}
	}
}
