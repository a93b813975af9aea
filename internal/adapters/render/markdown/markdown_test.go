package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererRendersMarkdownText(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(StyleNoTTY, DefaultWordWrap)

	out, err := renderer.Render("# Greeting\n\n- **Hello**, traveler.\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Greeting")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "traveler.")
}

func TestRendererReusesGlamourRenderer(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(StyleNoTTY, 40)

	_, err := renderer.Render("one")
	require.NoError(t, err)
	first := renderer.renderer

	_, err = renderer.Render("two")
	require.NoError(t, err)
	assert.Same(t, first, renderer.renderer)
}

func TestRendererUnknownStyleFails(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer("no-such-style", 0).Render("text")
	require.Error(t, err)
}
