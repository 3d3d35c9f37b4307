// Package layers groups classified features into the fixed layer buckets.
package layers

import (
	"tacmap/internal/types"
)

// Visibility maps layer ids to their default-visible flag. It is passed in
// at construction so runs with different presets don't interfere.
type Visibility map[types.LayerTag]bool

// DefaultVisibility returns the standard preset: tactical layers and the UA
// border visible, the Russia border and unclassified features hidden.
func DefaultVisibility() Visibility {
	return Visibility{
		types.LayerFrontline:   true,
		types.LayerControlArea: true,
		types.LayerAxis:        true,
		types.LayerUaUnit:      true,
		types.LayerRuUnit:      true,
		types.LayerUaBorder:    true,
		types.LayerRuBorder:    false,
		types.LayerOther:       false,
	}
}

// Aggregator buckets features by layer tag, preserving first-encountered
// order within each bucket. That order is the depth-first traversal order
// and is required for deterministic output diffing between runs.
type Aggregator struct {
	visibility Visibility
	buckets    map[types.LayerTag][]types.Feature
}

// New creates an aggregator with the given visibility preset.
func New(visibility Visibility) *Aggregator {
	return &Aggregator{
		visibility: visibility,
		buckets:    make(map[types.LayerTag][]types.Feature, len(types.LayerOrder)),
	}
}

// Add appends a feature to its layer bucket. Features with unknown tags go
// to the Other bucket rather than being dropped.
func (a *Aggregator) Add(f types.Feature) {
	tag := f.Tag
	if _, known := types.LayerLabels[tag]; !known {
		tag = types.LayerOther
		f.Tag = tag
	}
	a.buckets[tag] = append(a.buckets[tag], f)
}

// Layers returns all layer buckets in the fixed output order, including
// empty ones so the manifest is stable across runs.
func (a *Aggregator) Layers() []types.Layer {
	out := make([]types.Layer, 0, len(types.LayerOrder))
	for _, tag := range types.LayerOrder {
		out = append(out, types.Layer{
			ID:             tag,
			Label:          types.LayerLabels[tag],
			DefaultVisible: a.visibility[tag],
			Features:       a.buckets[tag],
		})
	}
	return out
}
