// Package assemble serializes aggregated layers into the structure consumed
// by the rendering stage: per-layer GeoJSON collections plus a manifest.
package assemble

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"tacmap/internal/types"
)

// ManifestEntry describes one layer for the UI dock's toggle controls.
type ManifestEntry struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	DefaultVisible bool   `json:"default_visible"`
	Features       int    `json:"features"`
}

// LayerOutput pairs a manifest entry with its geometry collection.
type LayerOutput struct {
	Manifest   ManifestEntry              `json:"manifest"`
	Collection *geojson.FeatureCollection `json:"collection"`
}

// Layers converts aggregated layers into their output form. Features without
// geometry are skipped here; they were already recorded on the audit trail.
func Layers(layers []types.Layer) []LayerOutput {
	out := make([]LayerOutput, 0, len(layers))
	for _, layer := range layers {
		out = append(out, LayerOutput{
			Manifest: ManifestEntry{
				ID:             string(layer.ID),
				Label:          layer.Label,
				DefaultVisible: layer.DefaultVisible,
				Features:       len(layer.Features),
			},
			Collection: toCollection(layer),
		})
	}
	return out
}

func toCollection(layer types.Layer) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, f := range layer.Features {
		if f.Geometry == nil {
			continue
		}

		feature := geojson.NewFeature(f.Geometry)
		if feature.Properties == nil {
			feature.Properties = make(map[string]interface{})
		}

		feature.Properties["layer"] = string(layer.ID)
		feature.Properties["stroke"] = f.Style.Stroke
		feature.Properties["fill"] = f.Style.Fill
		feature.Properties["stroke_width"] = f.Style.Width
		if f.Name != "" {
			feature.Properties["name"] = f.Name
		}
		if f.Style.Icon != "" {
			feature.Properties["icon"] = f.Style.Icon
		}
		if f.Historic {
			feature.Properties["historic"] = true
		}

		fc.Append(feature)
	}

	return fc
}

// Manifest extracts just the manifest entries, in layer order.
func Manifest(outputs []LayerOutput) []ManifestEntry {
	entries := make([]ManifestEntry, 0, len(outputs))
	for _, o := range outputs {
		entries = append(entries, o.Manifest)
	}
	return entries
}

// EncodeJSON marshals the layer outputs for embedding into the artifact.
func EncodeJSON(outputs []LayerOutput) ([]byte, error) {
	data, err := json.Marshal(outputs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layers: %w", err)
	}
	return data, nil
}
