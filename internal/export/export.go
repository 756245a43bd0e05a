// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders finished articles as plain text, Markdown, and
// styled HTML artifacts. Every format embeds the article text verbatim.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Format selects an artifact format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// AllFormats lists every supported artifact format.
var AllFormats = []Format{FormatText, FormatMarkdown, FormatHTML}

// extensions maps formats to file extensions.
var extensions = map[Format]string{
	FormatText:     ".txt",
	FormatMarkdown: ".md",
	FormatHTML:     ".html",
}

// ParseFormat validates a format name from a flag or config value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatMarkdown, FormatHTML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q: expected text, markdown, or html", s)
}

// Metadata describes a generated article for the HTML header block.
type Metadata struct {
	Topic     string
	Language  string
	Model     types.ModelID
	Generated time.Time
}

// htmlTmpl is the styled HTML document wrapping an article.
var htmlTmpl = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Meta.Topic}} - Research Article</title>
    <meta charset="UTF-8">
    <style>
        body {
            font-family: 'Georgia', serif;
            max-width: 900px;
            margin: 0 auto;
            padding: 40px 20px;
            line-height: 1.8;
            color: #333;
        }
        h1 {
            color: #2c3e50;
            border-bottom: 3px solid #3498db;
            padding-bottom: 15px;
            margin-bottom: 30px;
        }
        h2 {
            color: #34495e;
            margin-top: 40px;
            margin-bottom: 20px;
        }
        p { margin-bottom: 20px; }
        .meta {
            background: #f8f9fa;
            padding: 15px;
            border-left: 4px solid #3498db;
            margin: 20px 0;
        }
    </style>
</head>
<body>
    <div class="meta">
        <strong>Research Article:</strong> {{.Meta.Topic}}<br>
        <strong>Language:</strong> {{.Meta.Language}}<br>
        <strong>Generated:</strong> {{.Meta.Generated.Format "2006-01-02 15:04:05"}}<br>
        <strong>AI Model:</strong> {{.Meta.Model}}
    </div>
    <h1>{{.Meta.Topic}}</h1>
    <div style="white-space: pre-line;">{{.Article}}</div>
    <hr style="margin-top: 50px;">
    <p><small><em>Generated by article-engine</em></small></p>
</body>
</html>
`))

// Text returns the plain-text artifact: the article verbatim.
func Text(article string) string {
	return article
}

// Markdown returns the Markdown artifact: a title heading prepended to
// the article.
func Markdown(topic, article string) string {
	return fmt.Sprintf("# %s\n\n%s", topic, article)
}

// HTML returns the styled HTML artifact embedding the article and its
// metadata.
func HTML(meta Metadata, article string) (string, error) {
	var buf bytes.Buffer
	err := htmlTmpl.Execute(&buf, struct {
		Meta    Metadata
		Article string
	}{Meta: meta, Article: article})
	if err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}
	return buf.String(), nil
}

// FileName derives an artifact filename from the topic. Spaces and path
// separators become underscores.
func FileName(topic string, format Format) string {
	base := strings.NewReplacer(" ", "_", "/", "_").Replace(topic)
	return base + "_research_article" + extensions[format]
}

// Render produces the artifact content for one format.
func Render(format Format, meta Metadata, article string) (string, error) {
	switch format {
	case FormatText:
		return Text(article), nil
	case FormatMarkdown:
		return Markdown(meta.Topic, article), nil
	case FormatHTML:
		return HTML(meta, article)
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// WriteAll writes one artifact per requested format into dir, creating
// it if needed, and returns the written paths.
func WriteAll(dir string, meta Metadata, article string, formats []Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var paths []string
	for _, f := range formats {
		content, err := Render(f, meta, article)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, FileName(meta.Topic, f))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
