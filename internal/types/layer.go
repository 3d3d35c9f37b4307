package types

import (
	"github.com/paulmach/orb"
)

// LayerTag identifies the semantic layer a feature belongs to.
type LayerTag string

const (
	LayerFrontline   LayerTag = "frontline"
	LayerControlArea LayerTag = "control"
	LayerAxis        LayerTag = "axis"
	LayerUaUnit      LayerTag = "ua-units"
	LayerRuUnit      LayerTag = "ru-units"
	LayerUaBorder    LayerTag = "ua-border"
	LayerRuBorder    LayerTag = "ru-border"
	LayerOther       LayerTag = "other"
)

// LayerOrder is the fixed ordering of layers in the output artifact.
var LayerOrder = []LayerTag{
	LayerFrontline,
	LayerControlArea,
	LayerAxis,
	LayerUaUnit,
	LayerRuUnit,
	LayerUaBorder,
	LayerRuBorder,
	LayerOther,
}

// LayerLabels maps layer identifiers to their human-readable labels.
var LayerLabels = map[LayerTag]string{
	LayerFrontline:   "Frontline",
	LayerControlArea: "Control Areas",
	LayerAxis:        "Axes (UA/RU/Historic)",
	LayerUaUnit:      "UA Units",
	LayerRuUnit:      "RU Units",
	LayerUaBorder:    "UA Border",
	LayerRuBorder:    "Russia Border",
	LayerOther:       "Other",
}

// Style holds the resolved visual style of a feature.
type Style struct {
	Icon   string  // icon file name (relative to the images dir) or URL
	Stroke string  // HTML color #RRGGBB
	Fill   string  // HTML color #RRGGBB
	Width  float64 // stroke width in pixels
}

// Feature is a classified map feature. It is immutable once produced:
// geometry and style are copied out of the source tree so the tree can be
// discarded after classification.
type Feature struct {
	Name     string
	Folder   []string // ancestor folder names, outermost first
	Tag      LayerTag
	Geometry orb.Geometry
	Style    Style
	Historic bool // historic axis/offensive variant, styled differently
}

// Layer groups features sharing a semantic role.
type Layer struct {
	ID             LayerTag
	Label          string
	DefaultVisible bool
	Features       []Feature
}

// Count returns the total number of features across layers.
func Count(layers []Layer) int {
	n := 0
	for _, l := range layers {
		n += len(l.Features)
	}
	return n
}

// FeatureCounts returns a map of feature counts by layer id.
func FeatureCounts(layers []Layer) map[string]int {
	counts := make(map[string]int, len(layers)+1)
	total := 0
	for _, l := range layers {
		counts[string(l.ID)] = len(l.Features)
		total += len(l.Features)
	}
	counts["total"] = total
	return counts
}
