package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchRendererWritesOneFrameAtATime(t *testing.T) {
	out := &bytes.Buffer{}

	var inside atomic.Int32
	var overlapped atomic.Bool
	redraw := watchRenderer(out, func() error {
		if inside.Add(1) > 1 {
			overlapped.Store(true)
		}
		defer inside.Add(-1)

		out.WriteString("frame\n")
		time.Sleep(5 * time.Millisecond)
		return nil
	}, slog.New(slog.DiscardHandler))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			redraw()
		}()
	}
	wg.Wait()

	assert.False(t, overlapped.Load())
	assert.Equal(t, 8, strings.Count(out.String(), clearScreen+"frame\n"))
}

func TestWatchRendererKeepsGoingAfterRenderError(t *testing.T) {
	out := &bytes.Buffer{}
	calls := 0

	redraw := watchRenderer(out, func() error {
		calls++
		return errors.New("workspace file is being replaced")
	}, slog.New(slog.DiscardHandler))

	redraw()
	redraw()

	assert.Equal(t, 2, calls)
	assert.Equal(t, strings.Repeat(clearScreen, 2), out.String())
}
