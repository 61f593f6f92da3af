package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/loaders"
)

const (
	jsonIDPrefix  = "json:"
	builtInGroup  = "Built-in Scenes"
	jsonGroup     = "JSON Scenes"
	sceneTypeJSON = "json"
)

// Possible locations of the scenes directory, relative to the working directory
var scenesDirs = []string{"scenes", "../scenes"}

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Lookup
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the JSON file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

func findScenesDir() string {
	for _, path := range scenesDirs {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// findJSONScene resolves a "json:<name>" id to a file in the scenes directory.
// Only bare file names are accepted.
func findJSONScene(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q is not a scene file name", ErrUnknownScene, jsonIDPrefix+name)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	if dir := findScenesDir(); dir != "" {
		return filepath.Join(dir, name), nil
	}
	return name, nil
}

// ListJSONScenes returns the scenes found in the scenes directory
func ListJSONScenes() ([]SceneInfo, error) {
	scenesDir := findScenesDir()
	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}
	return ListJSONScenesIn(scenesDir)
}

// ListJSONScenesIn scans dir for *.json scene files, sorted by display name
func ListJSONScenesIn(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			// Skip unreadable files but keep the rest of the listing
			fmt.Fprintf(os.Stderr, "Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata reads the name, description and group of a scene file
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          jsonIDPrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       jsonGroup,
		Type:        sceneTypeJSON,
		FilePath:    filePath,
	}

	sf, err := loaders.LoadSceneFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	if sf.Name != "" {
		sceneInfo.Name = sf.Name
		sceneInfo.DisplayName = sf.Name
	}
	sceneInfo.Description = sf.Description
	if sf.Group != "" {
		sceneInfo.Group = sf.Group
	}

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and JSON scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	builtIn := []SceneInfo{
		{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "Small sphere resting on a large ground sphere",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          "single",
			Name:        "Single Sphere",
			DisplayName: "Single Sphere",
			Description: "One sphere in front of a square camera",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          "golden",
			Name:        "Golden",
			DisplayName: "Golden 2x2",
			Description: "2x2 regression image of the single sphere setup",
			Group:       builtInGroup,
			Type:        "builtin",
		},
	}

	jsonScenes, err := ListJSONScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list JSON scenes: %w", err)
	}

	allScenes := append(builtIn, jsonScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
