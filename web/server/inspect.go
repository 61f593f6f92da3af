package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	X            int                    `json:"x"`
	Y            int                    `json:"y"`
	RayDirection [3]float64             `json:"rayDirection"`
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Color        string                 `json:"color"` // Quantized pixel color as #rrggbb
	Properties   map[string]interface{} `json:"properties"`
}

// extractGeometryInfo describes a shape with type assertions
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch s := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(s.Center)
		properties["radius"] = s.Radius
		properties["exactFarRoot"] = s.ExactFarRoot
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// handleInspect reports what the primary ray through pixel (x, y) hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

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

	query := r.URL.Query()
	x, err := parseIntParam(query, "x", 0, 0, raytracer.Camera().Width()-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	y, err := parseIntParam(query, "y", 0, 0, raytracer.Camera().Height()-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	inspection, err := raytracer.InspectPixel(x, y)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	c := renderer.QuantizeColor(inspection.Color)
	response := InspectResponse{
		X:            x,
		Y:            y,
		RayDirection: vecArray(inspection.Ray.Direction),
		Hit:          inspection.Hit,
		GeometryType: "background",
		ShapeIndex:   inspection.ShapeIndex,
		Color:        fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		Properties:   map[string]interface{}{},
	}

	if inspection.Hit {
		response.GeometryType, response.Properties = extractGeometryInfo(sceneObj.Shapes[inspection.ShapeIndex])
		response.Point = vecArray(inspection.Record.Point)
		response.Normal = vecArray(inspection.Record.Normal)
		response.Distance = inspection.Record.T
		response.FrontFace = inspection.Record.FrontFace
	}

	writeJSON(w, http.StatusOK, response)
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
