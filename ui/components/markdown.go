package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant replies, rebuilding the glamour
// renderer when the wrap width changes. Output is cached per content for
// the current width.
type MarkdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
	misses   int
}

// NewMarkdownRenderer uses a fixed glamour style. Auto detection queries
// the terminal, which would race with the TUI's own input reader.
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	if style == "" {
		style = "dark"
	}
	return &MarkdownRenderer{style: style, cache: make(map[string]string)}
}

// Render returns content unchanged when glamour cannot render it.
func (r *MarkdownRenderer) Render(content string, width int) string {
	if r == nil {
		return content
	}
	width = max(width, 20)
	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		r.renderer = renderer
		r.width = width
		clear(r.cache)
	}

	if out, ok := r.cache[content]; ok {
		return out
	}
	r.misses++
	rendered, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	out := strings.Trim(rendered, "\n")
	r.cache[content] = out
	return out
}
