// Package terms renders tournament terms of participation.
package terms

import (
	"bytes"
	_ "embed"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed default_terms.md
var defaultTerms string

// DefaultMarkdown returns the club's standard terms
func DefaultMarkdown() string {
	return defaultTerms
}

// Renderer converts terms markdown into sanitized HTML
type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy

	mu    sync.RWMutex
	cache map[string]string
}

// NewRenderer creates a terms Renderer
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.Typographer)),
		policy:   bluemonday.UGCPolicy(),
		cache:    make(map[string]string),
	}
}

// Render returns sanitized HTML for the markdown. Empty input renders the standard terms.
func (r *Renderer) Render(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		markdown = defaultTerms
	}

	r.mu.RLock()
	html, ok := r.cache[markdown]
	r.mu.RUnlock()
	if ok {
		return html, nil
	}

	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	html = r.policy.Sanitize(buf.String())

	r.mu.Lock()
	r.cache[markdown] = html
	r.mu.Unlock()
	return html, nil
}
