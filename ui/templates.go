package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"

	"cordex/internal/errors"
	"cordex/internal/report"
	"cordex/ui/templates/fragments"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var funcMap = template.FuncMap{
	"add":       func(a, b int) int { return a + b },
	"stat":      report.FormatFloat,
	"percent":   percent,
	"thousands": thousands,
	"shortDigest": func(d string) string {
		if len(d) > 12 {
			return d[:12]
		}
		return d
	},
}

var printer = message.NewPrinter(language.English)

// thousands groups the digits of n with commas
func thousands(n int) string {
	return printer.Sprintf("%d", n)
}

func percent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

// parseTemplates parses every .html file under root and under root/fragments
func parseTemplates(root fs.FS) (*template.Template, error) {
	if root == nil {
		return nil, errors.InvalidInput("templates filesystem is required")
	}
	files1, err := fs.Glob(root, "*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to glob templates")
	}
	files2, err := fs.Glob(root, "fragments/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to glob fragment templates")
	}

	tmpl := template.New("").Funcs(funcMap)
	for _, file := range append(files1, files2...) {
		content, err := fs.ReadFile(root, file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read template %s", file)
		}
		if _, err := tmpl.New(file).Parse(string(content)); err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", file)
		}
	}
	for _, name := range fragments.Required() {
		if tmpl.Lookup(name) == nil {
			return nil, errors.InvalidInput(fmt.Sprintf("template %s is missing", name))
		}
	}
	return tmpl, nil
}

// renderTemplate executes a template into a buffer before writing so errors never
// produce half a page
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template error", zap.String("template", name), zap.Error(err))
		c.AbortWithStatusJSON(500, gin.H{"error": "template rendering failed"})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("error writing template response", zap.Error(err))
	}
}
