package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// handleCompare renders the scene with both far-root formulas and returns a
// labelled side-by-side PNG. The exactFarRoot and format parameters are ignored.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
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

	var renders [2]*renderer.Buffer
	for i, exact := range []bool{false, true} {
		sceneObj.SetExactFarRoot(exact)
		raytracer, err := renderer.NewRaytracer(sceneObj, nil)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if renders[i], _, err = raytracer.Render(); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Render error: %v", err)})
			return
		}
	}

	var encoded bytes.Buffer
	if err := output.WriteComparePNG(&encoded, renders[0], renders[1], "legacy far root", "exact far root"); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", output.FormatPNG.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(encoded.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(encoded.Bytes())
}
