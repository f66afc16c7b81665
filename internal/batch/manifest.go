package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one composited photo in the output manifest.
type ManifestEntry struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Manifest is written next to the batch outputs.
type Manifest struct {
	Background string          `json:"background"`
	Size       string          `json:"size,omitempty"`
	Items      []ManifestEntry `json:"items"`
	Failed     []string        `json:"failed,omitempty"`
}

// BuildManifest collects successful results; image paths are relative to outputDir.
func BuildManifest(outputDir, background, size string, results []Result) Manifest {
	m := Manifest{Background: background, Size: size, Items: []ManifestEntry{}}
	for _, r := range results {
		if !r.Success {
			m.Failed = append(m.Failed, r.Name)
			continue
		}
		rel, err := filepath.Rel(outputDir, r.Output)
		if err != nil {
			rel = r.Output
		}
		m.Items = append(m.Items, ManifestEntry{
			Name:   r.Name,
			Image:  filepath.ToSlash(rel),
			Width:  r.Width,
			Height: r.Height,
		})
	}
	return m
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
