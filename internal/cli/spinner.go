package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// connectSpinner animates a one-line status while a remote backend dials.
// It runs from startSpinner until stop is called or ctx is cancelled.
type connectSpinner struct {
	w     io.Writer
	label string

	cancel   context.CancelFunc
	finished chan struct{}
	once     sync.Once
}

// startSpinner draws label with an animated frame on w until stopped.
func startSpinner(ctx context.Context, w io.Writer, label string) *connectSpinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &connectSpinner{
		w:        w,
		label:    label,
		cancel:   cancel,
		finished: make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *connectSpinner) run(ctx context.Context) {
	defer close(s.finished)
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			s.erase()
			return
		case <-ticker.C:
			glyph := spinnerFrames[frame%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.label))
		}
	}
}

// erase blanks the status line. Only the run goroutine writes to w, so it
// needs no lock.
func (s *connectSpinner) erase() {
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.label)+4))
}

// stop ends the animation and waits for the line to be erased. Repeated
// calls are no-ops.
func (s *connectSpinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.finished
	})
}
