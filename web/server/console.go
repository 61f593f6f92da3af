package server

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// ConsoleMessage is one render log line as shown in the browser console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
	RenderID  string    `json:"renderId"`
}

// WebLogger implements core.Logger for a single render. Every line goes to
// the server log prefixed with the render ID, and is offered to the console
// channel without blocking the render.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	dropped     atomic.Int64
}

// NewWebLogger creates a logger for renderID. consoleChan may be nil.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", wl.renderID, strings.TrimRight(message, "\n"))

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     messageLevel(message),
		RenderID:  wl.renderID,
	}:
	default:
		wl.dropped.Add(1)
	}
}

// Dropped returns how many lines did not fit in the console channel
func (wl *WebLogger) Dropped() int {
	return int(wl.dropped.Load())
}

// RenderID returns the ID prefixed to every server log line
func (wl *WebLogger) RenderID() string {
	return wl.renderID
}

var _ core.Logger = (*WebLogger)(nil)

// messageLevel classifies a line by its leading word
func messageLevel(message string) string {
	switch {
	case strings.HasPrefix(message, "Error"):
		return "error"
	case strings.HasPrefix(message, "Warning"):
		return "warning"
	default:
		return "info"
	}
}
