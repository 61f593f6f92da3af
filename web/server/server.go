package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

// Request limits shared by every endpoint
const (
	minWidth  = 2
	maxWidth  = 2000
	maxPixels = 2000 * 2000
)

// errSceneTooLarge is returned for cameras whose image exceeds maxPixels
var errSceneTooLarge = errors.New("image too large")

// Server handles web requests for the pinhole raytracer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/"}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene        string        `json:"scene"`        // Scene name (e.g., "default")
	Width        int           `json:"width"`        // Image width, 0 keeps the scene default
	AspectRatio  float64       `json:"aspectRatio"`  // 0 keeps the scene default
	ExactFarRoot bool          `json:"exactFarRoot"` // Use the exact far-root formula
	Format       output.Format `json:"format"`       // Encoding for /api/image
}

// Stats represents render statistics
type Stats struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TotalPixels    int     `json:"totalPixels"`
	HitPixels      int     `json:"hitPixels"`
	HitRatio       float64 `json:"hitRatio"`
	PrimitiveCount int     `json:"primitiveCount"`
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/compare", s.handleCompare)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the camera defaults for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(&RenderRequest{Scene: sceneName})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.GetCameraConfig()
	response := map[string]interface{}{
		"scene": sceneName,
		"name":  sceneObj.Name,
		"defaults": map[string]interface{}{
			"width":          config.Width,
			"height":         config.ImageHeight(),
			"aspectRatio":    config.AspectRatio,
			"viewportHeight": config.ViewportHeight,
			"focalLength":    config.FocalLength,
			"primitiveCount": sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": minWidth,
				"max": maxWidth,
			},
			"pixels": map[string]int{
				"max": maxPixels,
			},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// handleImage renders a scene synchronously and returns the encoded image
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	raytracer, err := renderer.NewRaytracer(sceneObj, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	buf, _, err := raytracer.Render()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Render error: %v", err)})
		return
	}

	var encoded bytes.Buffer
	if err := output.Write(&encoded, buf, req.Format); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(encoded.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(encoded.Bytes())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default", Format: output.FormatPNG}

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.AspectRatio, err = parseFloatParam(query, "aspectRatio", 0, 0.1, 10); err != nil {
		return nil, err
	}
	if req.ExactFarRoot, err = parseBoolParam(query, "exactFarRoot"); err != nil {
		return nil, err
	}
	if format := query.Get("format"); format != "" {
		if req.Format, err = output.ParseFormat(format); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func parseBoolParam(values url.Values, key string) (bool, error) {
	value := values.Get(key)
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

// createScene creates a scene from the request, applying camera overrides.
// Only built-in scenes and files listed by /api/scenes can be requested.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	if !servedScene(req.Scene) {
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, req.Scene)
	}

	sceneObj, err := scene.Lookup(req.Scene, renderer.CameraConfig{
		Width:       req.Width,
		AspectRatio: req.AspectRatio,
	})
	if err != nil {
		return nil, err
	}

	config := sceneObj.GetCameraConfig()
	if pixels := config.Width * config.ImageHeight(); pixels > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels",
			errSceneTooLarge, config.Width, config.ImageHeight(), maxPixels)
	}
	if req.ExactFarRoot {
		sceneObj.SetExactFarRoot(true)
	}
	return sceneObj, nil
}

// servedScene reports whether name is a built-in scene or the id of a discovered scene file
func servedScene(name string) bool {
	if slices.Contains(scene.Names(), name) {
		return true
	}
	if !strings.HasPrefix(name, "json:") {
		return false
	}
	jsonScenes, err := scene.ListJSONScenes()
	if err != nil {
		return false
	}
	return slices.ContainsFunc(jsonScenes, func(info scene.SceneInfo) bool {
		return info.ID == name
	})
}

// bufferToBase64PNG converts a render buffer to base64-encoded PNG
func bufferToBase64PNG(buf *renderer.Buffer) (string, error) {
	var encoded bytes.Buffer
	if err := output.WritePNG(&encoded, buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encoded.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
