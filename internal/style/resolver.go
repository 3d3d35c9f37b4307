// Package style resolves per-feature visual styles from inline definitions,
// shared styles, and style-map indirections.
package style

import (
	"errors"
	"fmt"
	"strings"

	"tacmap/internal/kml"
	"tacmap/internal/types"
)

// ErrUnresolved marks a style reference that could not be followed to a
// terminal definition. Callers substitute the default style and continue.
var ErrUnresolved = errors.New("unresolved style reference")

// maxMapHops bounds style-map indirection. A style-map resolves to its
// "normal" target; if that target is itself a style-map we follow it once
// more. Deeper chains fail safe to the default style instead of looping.
const maxMapHops = 2

// Default returns the fallback style applied when resolution fails.
func Default() types.Style {
	return types.Style{
		Stroke: "#888888",
		Fill:   "#2F2F2F",
		Width:  2,
	}
}

// Resolver resolves style references against a shared style table.
type Resolver struct {
	table *kml.StyleTable
	def   types.Style
}

// NewResolver creates a resolver over the document's style table.
func NewResolver(table *kml.StyleTable, def types.Style) *Resolver {
	return &Resolver{table: table, def: def}
}

// Resolve returns the style for a feature. An inline style wins over a
// referenced shared style. Unresolvable references yield the default style
// and ErrUnresolved, never a fatal error.
func (r *Resolver) Resolve(inline *kml.RawStyle, styleID string) (types.Style, error) {
	if inline != nil {
		return convert(*inline, r.def), nil
	}

	if styleID == "" {
		return r.def, nil
	}

	id := styleID
	for hop := 0; hop < maxMapHops; hop++ {
		target, isMap := r.table.Maps[id]
		if !isMap {
			break
		}
		id = target
	}

	if _, stillMap := r.table.Maps[id]; stillMap {
		return r.def, fmt.Errorf("%w: style-map chain too deep at %q", ErrUnresolved, styleID)
	}

	raw, ok := r.table.Styles[id]
	if !ok {
		return r.def, fmt.Errorf("%w: %q", ErrUnresolved, styleID)
	}

	return convert(raw, r.def), nil
}

func convert(raw kml.RawStyle, def types.Style) types.Style {
	s := types.Style{
		Icon:   raw.Icon,
		Stroke: def.Stroke,
		Fill:   def.Fill,
		Width:  def.Width,
	}
	if raw.LineColor != "" {
		s.Stroke = HTMLColor(raw.LineColor)
	}
	if raw.PolyColor != "" {
		s.Fill = HTMLColor(raw.PolyColor)
	}
	if raw.LineWidth > 0 {
		s.Width = raw.LineWidth
	}
	return s
}

// HTMLColor converts a KML color (aabbggrr) to an HTML #RRGGBB color.
// Invalid input falls back to red, matching the upstream map's behavior.
func HTMLColor(kmlColor string) string {
	clean := strings.TrimPrefix(strings.TrimSpace(kmlColor), "#")
	if len(clean) == 8 {
		clean = clean[2:] // drop alpha
	}
	if len(clean) != 6 {
		return "#FF0000"
	}
	return strings.ToUpper("#" + clean[4:6] + clean[2:4] + clean[0:2])
}
