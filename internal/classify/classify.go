// Package classify assigns each surviving feature to exactly one semantic
// layer using an ordered list of predicates. The ordering is a correctness
// contract: the first matching rule wins, so folder-path signals beat icon
// signals, which beat name keywords, which beat the geometry-kind fallback.
package classify

import (
	"strings"

	"tacmap/internal/kml"
	"tacmap/internal/types"
)

// Input is everything classification may consult. Classification is a pure
// function of these fields, so identical inputs always yield the same tag.
type Input struct {
	Name  string
	Path  []string // ancestor folder names, outermost first
	Style types.Style
	Kind  kml.GeometryKind
}

// Rule is a single predicate/tag pair.
type Rule struct {
	Name  string
	Match func(Input) (types.LayerTag, bool)
}

// folderLayers maps known layer folder names to their tags. Matched exact or
// as a prefix, case-insensitive, against every path segment.
var folderLayers = []struct {
	prefix string
	tag    types.LayerTag
}{
	{"frontline", types.LayerFrontline},
	{"ukrainian unit positions", types.LayerUaUnit},
	{"russian unit positions", types.LayerRuUnit},
	{"important areas", types.LayerControlArea},
	{"axis", types.LayerAxis},
}

// iconLayers maps curated icon file-name fragments to tags. The source
// document marks unit positions with side-specific icons.
var iconLayers = []struct {
	fragment string
	tag      types.LayerTag
}{
	{"ukr", types.LayerUaUnit},
	{"ua_", types.LayerUaUnit},
	{"rus", types.LayerRuUnit},
	{"ru_", types.LayerRuUnit},
	{"front", types.LayerFrontline},
}

// Rules returns the ordered predicate table.
func Rules() []Rule {
	return []Rule{
		{Name: "folder-path", Match: matchFolderPath},
		{Name: "icon", Match: matchIcon},
		{Name: "name-keywords", Match: matchName},
		{Name: "geometry-kind", Match: matchKind},
	}
}

// Classify returns the layer tag for a feature. Features matching no rule
// are tagged Other; they are retained, just hidden by default.
func Classify(in Input) types.LayerTag {
	for _, rule := range Rules() {
		if tag, ok := rule.Match(in); ok {
			return tag
		}
	}
	return types.LayerOther
}

func matchFolderPath(in Input) (types.LayerTag, bool) {
	for _, segment := range in.Path {
		seg := strings.ToLower(strings.TrimSpace(segment))
		for _, fl := range folderLayers {
			if seg == fl.prefix || strings.HasPrefix(seg, fl.prefix) {
				return fl.tag, true
			}
		}
	}
	return "", false
}

func matchIcon(in Input) (types.LayerTag, bool) {
	icon := strings.ToLower(in.Style.Icon)
	if icon == "" {
		return "", false
	}
	for _, il := range iconLayers {
		if strings.Contains(icon, il.fragment) {
			return il.tag, true
		}
	}
	return "", false
}

func matchName(in Input) (types.LayerTag, bool) {
	name := strings.ToLower(in.Name)
	if name == "" {
		return "", false
	}

	switch {
	case strings.Contains(name, "front line"), strings.Contains(name, "frontline"):
		return types.LayerFrontline, true
	case strings.Contains(name, "border") && strings.Contains(name, "ukrain"):
		return types.LayerUaBorder, true
	case strings.Contains(name, "border") && strings.Contains(name, "russia"):
		return types.LayerRuBorder, true
	case strings.Contains(name, "axis"),
		strings.Contains(name, "offensive"),
		strings.Contains(name, "counterattack"),
		strings.Contains(name, "advance"):
		return types.LayerAxis, true
	case strings.Contains(name, "ukrainian"):
		return types.LayerUaUnit, true
	case strings.Contains(name, "russian"):
		return types.LayerRuUnit, true
	}

	return "", false
}

// matchKind is the lowest-priority fallback: bare polygons are control
// areas, bare lines are axes.
func matchKind(in Input) (types.LayerTag, bool) {
	switch in.Kind {
	case kml.KindPolygon:
		return types.LayerControlArea, true
	case kml.KindLineString:
		return types.LayerAxis, true
	}
	return "", false
}

// Historic reports whether a feature represents a historic axis or
// offensive (the initial invasion phase), used for subdued styling.
func Historic(name string) bool {
	n := strings.ToLower(name)
	if strings.Contains(n, "initial") && strings.Contains(n, "invasion") {
		return true
	}
	if strings.Contains(n, "2022") && (strings.Contains(n, "axis") || strings.Contains(n, "offensive")) {
		return true
	}
	return false
}
