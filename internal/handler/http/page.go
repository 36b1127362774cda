package httphandler

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	_ "embed"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

var (
	//go:embed templates/upload.html
	uploadTemplateContent string

	//go:embed templates/usage.md
	usageContent []byte
)

type pageContext struct {
	Title       string
	ContentHTML template.HTML
	ColumnName  string
}

// NewUploadPageHandler serves the static upload form. The usage text is
// markdown with a frontmatter title, rendered once at construction.
func NewUploadPageHandler(log *slog.Logger) (http.HandlerFunc, error) {
	log = log.With(slog.String("handler", "UploadPageHandler"))

	page, err := renderUploadPage()
	if err != nil {
		return nil, fmt.Errorf("cannot render upload page: %w", err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(page); err != nil {
			log.Error("Cannot write page", slog.Any("error", err))
		}
	}, nil
}

func renderUploadPage() ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := md.Convert(usageContent, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("cannot convert usage markdown: %w", err)
	}

	pc := pageContext{
		Title:       "Bulk Photo Downloader",
		ContentHTML: template.HTML(buf.String()),
		ColumnName:  defaultColumnName,
	}

	if fm := frontmatter.Get(ctx); fm != nil {
		var meta struct {
			Title string `yaml:"title"`
		}
		if err := fm.Decode(&meta); err == nil && meta.Title != "" {
			pc.Title = meta.Title
		}
	}

	tmpl, err := template.New("upload").Parse(uploadTemplateContent)
	if err != nil {
		return nil, fmt.Errorf("cannot parse upload template: %w", err)
	}

	var page bytes.Buffer
	if err := tmpl.Execute(&page, &pc); err != nil {
		return nil, fmt.Errorf("cannot execute upload template: %w", err)
	}

	return page.Bytes(), nil
}
