package ui

import (
	"fmt"
	"image/color"
	"io"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
)

var (
	pointsFrames = []string{"∙∙∙", "●∙∙", "∙●∙", "∙∙●"}
	pointsFPS    = time.Second / 7
)

// Spinner draws an animated loading indicator on a writer (normally stderr)
// from its own goroutine while the completion request is in flight.
type Spinner struct {
	out     io.Writer
	message string
	frames  []string
	fps     time.Duration
	color   color.Color

	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewSpinner creates a spinner that writes to out.
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		message: message,
		frames:  pointsFrames,
		fps:     pointsFPS,
		color:   GetTheme().Primary,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go s.run()
}

// Stop halts the animation and blocks until the spinner line is cleared.
// It is safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

func (s *Spinner) run() {
	defer close(s.stopped)

	theme := GetTheme()
	spinnerStyle := lipgloss.NewStyle().
		Foreground(s.color).
		Bold(true)
	messageStyle := lipgloss.NewStyle().
		Foreground(theme.Text).
		Italic(true)

	ticker := time.NewTicker(s.fps)
	defer ticker.Stop()

	var frame int
	for {
		select {
		case <-s.done:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
			f := s.frames[frame%len(s.frames)]
			fmt.Fprintf(s.out, "\r %s %s",
				spinnerStyle.Render(f),
				messageStyle.Render(s.message))
			frame++
		}
	}
}

// ShowSpinner runs action while a spinner animates on out.
func ShowSpinner(out io.Writer, message string, action func() error) error {
	s := NewSpinner(out, message)
	s.Start()
	defer s.Stop()
	return action()
}
