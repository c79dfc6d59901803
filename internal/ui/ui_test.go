package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShowSpinner_ReturnsActionError(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("request failed")

	err := ShowSpinner(&buf, "Querying", func() error {
		time.Sleep(3 * pointsFPS)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected action error, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Querying") {
		t.Errorf("Expected spinner message in output, got %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("Expected spinner to clear its line on stop, got %q", out)
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "waiting")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestGetTheme(t *testing.T) {
	if GetTheme().Error != DefaultTheme().Error {
		t.Errorf("Expected the default theme to be active")
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\nhello **world**\n", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	for _, want := range []string{"Title", "hello", "world"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected rendered output to contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "**") {
		t.Errorf("Expected emphasis markers to be rendered, got %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Errorf("Expected trailing newlines to be trimmed, got %q", out)
	}
}
