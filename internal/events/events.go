// Package events loads the filtered conflict-event dataset consumed by the
// artifact's filter panel. The core classifier never touches these; they are
// passed through as a GeoJSON collection plus range metadata.
package events

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Meta summarizes the dataset for the filter panel's defaults.
type Meta struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
	MaxBest int    `json:"max_best"`
	MaxCiv  int    `json:"max_civ"`
	Count   int    `json:"count"`
}

// Dataset is the loaded event collection.
type Dataset struct {
	Collection *geojson.FeatureCollection
	Meta       Meta
}

// Empty returns a dataset with no events, used when the source file is
// missing so the filter panel still renders.
func Empty() *Dataset {
	return &Dataset{Collection: geojson.NewFeatureCollection()}
}

// rawEvent is one record of the upstream event export before GeoJSON
// conversion.
type rawEvent struct {
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	DateStart       string   `json:"date_start"`
	DateEnd         string   `json:"date_end"`
	Best            int      `json:"best"`
	DeathsCivilians int      `json:"deaths_civilians"`
	WherePrec       *int     `json:"where_prec"`
	ConflictName    string   `json:"conflict_name"`
	Where           string   `json:"where_coordinates"`
	Adm1            string   `json:"adm_1"`
	Country         string   `json:"country"`
	SideA           string   `json:"side_a"`
	SideB           string   `json:"side_b"`
	Source          string   `json:"source_office"`
}

// Load reads the event dataset. The file may be a GeoJSON FeatureCollection,
// a bare list of GeoJSON features, or a raw event export ({"events": [...]}
// or a bare event list); all are normalized to a FeatureCollection.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		return withMeta(fc), nil
	}

	var featureList []*geojson.Feature
	if err := json.Unmarshal(data, &featureList); err == nil && len(featureList) > 0 && featureList[0].Geometry != nil {
		fc := geojson.NewFeatureCollection()
		fc.Features = featureList
		return withMeta(fc), nil
	}

	var wrapped struct {
		Events []rawEvent `json:"events"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Events) > 0 {
		return withMeta(convertRaw(wrapped.Events)), nil
	}

	var rawList []rawEvent
	if err := json.Unmarshal(data, &rawList); err == nil && len(rawList) > 0 {
		return withMeta(convertRaw(rawList)), nil
	}

	return nil, fmt.Errorf("unrecognized event dataset format in %s", path)
}

func convertRaw(events []rawEvent) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, ev := range events {
		if ev.Latitude == nil || ev.Longitude == nil {
			continue
		}

		date := ev.DateStart
		if date == "" {
			date = ev.DateEnd
		}
		if len(date) > 10 {
			date = date[:10]
		}

		prec := 9
		if ev.WherePrec != nil {
			prec = *ev.WherePrec
		}

		where := ev.Where
		if where == "" {
			where = ev.Adm1
		}
		if where == "" {
			where = ev.Country
		}

		f := geojson.NewFeature(orb.Point{*ev.Longitude, *ev.Latitude})
		f.Properties = map[string]interface{}{
			"date":     date,
			"best":     ev.Best,
			"civ":      ev.DeathsCivilians,
			"prec":     prec,
			"conflict": ev.ConflictName,
			"where":    where,
		}
		if ev.SideA != "" || ev.SideB != "" {
			f.Properties["side_a"] = ev.SideA
			f.Properties["side_b"] = ev.SideB
		}
		if ev.Source != "" {
			f.Properties["source"] = ev.Source
		}

		fc.Append(f)
	}

	return fc
}

func withMeta(fc *geojson.FeatureCollection) *Dataset {
	meta := Meta{Count: len(fc.Features)}

	for _, f := range fc.Features {
		if f.Properties == nil {
			continue
		}

		if date, ok := f.Properties["date"].(string); ok && len(date) >= 10 {
			if meta.MinDate == "" || date < meta.MinDate {
				meta.MinDate = date
			}
			if date > meta.MaxDate {
				meta.MaxDate = date
			}
		}
		if best := intProp(f.Properties, "best"); best > meta.MaxBest {
			meta.MaxBest = best
		}
		if civ := intProp(f.Properties, "civ"); civ > meta.MaxCiv {
			meta.MaxCiv = civ
		}
	}

	return &Dataset{Collection: fc, Meta: meta}
}

func intProp(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
