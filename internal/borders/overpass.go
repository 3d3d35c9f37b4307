package borders

import (
	"fmt"
	"net/http"

	"github.com/MeKo-Christian/go-overpass"
	"github.com/paulmach/orb"
)

// Fetcher retrieves country boundaries from the Overpass API when no local
// borders file is available.
type Fetcher struct {
	client overpass.Client
}

// NewFetcher creates an Overpass-backed boundary fetcher.
func NewFetcher(endpoint string) *Fetcher {
	if endpoint == "" {
		endpoint = "https://overpass-api.de/api/interpreter"
	}

	// Single parallel request per API etiquette.
	client := overpass.NewWithSettings(endpoint, 1, http.DefaultClient)

	return &Fetcher{client: client}
}

// FetchBoundary queries the national (admin_level=2) boundary for a country
// by its English name and assembles the member ways into a MultiLineString.
// Border layers only need the outline, not an assembled polygon.
func (f *Fetcher) FetchBoundary(name string) (Country, error) {
	query := fmt.Sprintf(`
[out:json][timeout:120];
relation["boundary"="administrative"]["admin_level"="2"]["name:en"=%q];
way(r)["maritime"!="yes"];
out geom;
`, name)

	result, err := f.client.Query(query)
	if err != nil {
		return Country{}, fmt.Errorf("overpass boundary query failed: %w", err)
	}

	var lines orb.MultiLineString
	for _, way := range result.Ways {
		if way == nil || len(way.Geometry) == 0 {
			continue
		}
		line := make(orb.LineString, len(way.Geometry))
		for i, pt := range way.Geometry {
			line[i] = orb.Point{pt.Lon, pt.Lat}
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return Country{}, fmt.Errorf("no boundary ways returned for %q", name)
	}

	return Country{Name: name, Geometry: lines}, nil
}
