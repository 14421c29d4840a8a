package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsLabel(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Connecting to redis...")
	time.Sleep(3 * spinnerTick)
	s.stop()

	out := buf.String()
	if !strings.Contains(out, "Connecting to redis...") {
		t.Errorf("spinner output %q lacks the label", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("spinner should erase its line when stopped")
	}
}

func TestSpinnerFinishesOnCancel(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, &buf, "Connecting to mongo...")
	cancel()

	select {
	case <-s.finished:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancellation")
	}
	s.stop()
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Connecting to redis...")
	s.stop()
	s.stop()
}
