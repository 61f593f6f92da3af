package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// ProgressUpdate carries the finished image and its statistics
type ProgressUpdate struct {
	Scene      string `json:"scene"`
	ImageData  string `json:"imageData"` // Base64 encoded PNG
	Stats      Stats  `json:"stats"`
	IsComplete bool   `json:"isComplete"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// handleRender renders a scene, streaming the scanline log as console events,
// then the image as a progress event and finally a complete event.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)

	// Start single SSE writer goroutine; the handler waits for it before returning
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		writer.Wait()
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	var console sync.WaitGroup
	console.Add(1)
	go func() {
		defer console.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	buf, stats, err := s.render(sceneObj, webLogger)

	// Drain the console before the result so events arrive in order
	close(consoleChan)
	console.Wait()
	if n := webLogger.Dropped(); n > 0 {
		log.Printf("[%s] %d console lines dropped", webLogger.RenderID(), n)
	}

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	imageData, err := bufferToBase64PNG(buf)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	update := ProgressUpdate{
		Scene:     req.Scene,
		ImageData: imageData,
		Stats: Stats{
			Width:          buf.Width,
			Height:         buf.Height,
			TotalPixels:    stats.TotalPixels,
			HitPixels:      stats.HitPixels,
			HitRatio:       stats.HitRatio(),
			PrimitiveCount: sceneObj.GetPrimitiveCount(),
		},
		IsComplete: true,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling progress update: %v", err)
		s.handleError(ctx, sseEventChan, "Failed to encode progress update")
		return
	}

	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "progress", Data: string(data)})
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: "Rendering completed"})
}

func (s *Server) render(sceneObj renderer.Scene, logger core.Logger) (*renderer.Buffer, renderer.RenderStats, error) {
	raytracer, err := renderer.NewRaytracer(sceneObj, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return raytracer.Render()
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, *WebLogger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Write SSE event
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				// Channel closed
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "console", Data: string(data)})

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: message})
}
