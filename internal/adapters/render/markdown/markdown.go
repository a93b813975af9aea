package markdown

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"

	DefaultWordWrap = 80
)

// Renderer turns director replies into terminal Markdown. The glamour
// renderer is built lazily and reused.
type Renderer struct {
	style    string
	wordWrap int

	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

func NewRenderer(style string, wordWrap int) *Renderer {
	if style == "" {
		style = StyleAuto
	}
	if wordWrap < 0 {
		wordWrap = 0
	}

	return &Renderer{style: style, wordWrap: wordWrap}
}

func (r *Renderer) Render(content string) (string, error) {
	renderer, err := r.ensure()
	if err != nil {
		return "", err
	}

	out, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return out, nil
}

func (r *Renderer) ensure() (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.renderer != nil {
		return r.renderer, nil
	}

	options := []glamour.TermRendererOption{glamour.WithWordWrap(r.wordWrap)}
	if r.style == StyleAuto {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle(r.style))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}

	r.renderer = renderer
	return renderer, nil
}
