// Package borders loads country boundary geometry for the border layers,
// either from a local Natural Earth style GeoJSON export or, failing that,
// from the Overpass API.
package borders

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Country is a resolved boundary geometry.
type Country struct {
	Name     string
	Geometry orb.Geometry
}

// isoColumns and nameColumns are probed in order; Natural Earth exports are
// inconsistent about which identifier columns they carry.
var (
	isoColumns  = []string{"iso_a3", "ISO_A3", "adm0_a3", "ADM0_A3", "sov_a3", "SOV_A3"}
	nameColumns = []string{"admin", "ADMIN", "name", "NAME", "sovereignt", "SOVEREIGNT"}
)

// LoadFile resolves the named countries from a GeoJSON file. Each query may
// be an ISO3 code ("UKR") or a country-name substring ("Ukraine").
func LoadFile(path string, queries []string) ([]Country, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read borders file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode borders geojson: %w", err)
	}

	countries := make([]Country, 0, len(queries))
	for _, q := range queries {
		country, ok := find(fc, q)
		if !ok {
			return nil, fmt.Errorf("country %q not found in %s", q, path)
		}
		countries = append(countries, country)
	}

	return countries, nil
}

func find(fc *geojson.FeatureCollection, query string) (Country, bool) {
	isISO := len(query) == 3 && strings.ToUpper(query) == query

	for _, f := range fc.Features {
		if f.Geometry == nil || f.Properties == nil {
			continue
		}

		if isISO {
			for _, col := range isoColumns {
				if v, ok := f.Properties[col].(string); ok && strings.EqualFold(v, query) {
					return Country{Name: displayName(f.Properties, query), Geometry: f.Geometry}, true
				}
			}
			continue
		}

		for _, col := range nameColumns {
			if v, ok := f.Properties[col].(string); ok &&
				strings.Contains(strings.ToLower(v), strings.ToLower(query)) {
				return Country{Name: v, Geometry: f.Geometry}, true
			}
		}
	}

	return Country{}, false
}

func displayName(props map[string]interface{}, fallback string) string {
	for _, col := range nameColumns {
		if v, ok := props[col].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}
