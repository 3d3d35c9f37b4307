// Package geometry normalizes raw KML coordinate blocks into orb geometries.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"tacmap/internal/kml"
)

// ErrMalformed marks coordinate data that could not be parsed. Callers drop
// the affected geometry and continue the pass.
var ErrMalformed = errors.New("malformed coordinates")

// Normalize converts a raw geometry into an orb geometry with (lon, lat)
// ordering and altitude discarded. Unknown geometry kinds yield a nil
// geometry without error; malformed coordinate data yields ErrMalformed.
func Normalize(raw *kml.RawGeometry) (orb.Geometry, error) {
	if raw == nil {
		return nil, nil
	}

	switch raw.Kind {
	case kml.KindPoint:
		points, err := parseCoordinates(raw.Coordinates)
		if err != nil {
			return nil, err
		}
		if len(points) == 0 {
			return nil, fmt.Errorf("%w: empty point", ErrMalformed)
		}
		return points[0], nil

	case kml.KindLineString:
		points, err := parseCoordinates(raw.Coordinates)
		if err != nil {
			return nil, err
		}
		if len(points) < 2 {
			return nil, fmt.Errorf("%w: line with %d points", ErrMalformed, len(points))
		}
		return orb.LineString(points), nil

	case kml.KindPolygon:
		return normalizePolygon(raw)

	case kml.KindMulti:
		return normalizeMulti(raw)

	default:
		return nil, nil
	}
}

func normalizePolygon(raw *kml.RawGeometry) (orb.Geometry, error) {
	if len(raw.Rings) == 0 {
		return nil, fmt.Errorf("%w: polygon without rings", ErrMalformed)
	}

	polygon := make(orb.Polygon, 0, len(raw.Rings))
	for _, text := range raw.Rings {
		points, err := parseCoordinates(text)
		if err != nil {
			return nil, err
		}
		ring := orb.Ring(points)
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		if len(ring) < 4 {
			return nil, fmt.Errorf("%w: ring with %d points", ErrMalformed, len(ring))
		}
		polygon = append(polygon, ring)
	}

	return polygon, nil
}

// normalizeMulti recurses into member geometries. Malformed members are
// skipped so one bad part does not discard its siblings; a multi-geometry
// whose members all fail is itself malformed.
func normalizeMulti(raw *kml.RawGeometry) (orb.Geometry, error) {
	collection := make(orb.Collection, 0, len(raw.Members))
	failed := 0
	for _, member := range raw.Members {
		geom, err := Normalize(member)
		if err != nil {
			failed++
			continue
		}
		if geom != nil {
			collection = append(collection, geom)
		}
	}

	if len(collection) == 0 {
		if failed > 0 {
			return nil, fmt.Errorf("%w: all %d members malformed", ErrMalformed, failed)
		}
		return nil, nil
	}

	return collection, nil
}

// parseCoordinates parses whitespace-separated "lon,lat[,alt]" tuples.
// Any non-numeric or short tuple poisons the whole block.
func parseCoordinates(text string) ([]orb.Point, error) {
	fields := strings.Fields(text)
	points := make([]orb.Point, 0, len(fields))

	for _, tuple := range fields {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: tuple %q has %d components", ErrMalformed, tuple, len(parts))
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad longitude %q", ErrMalformed, parts[0])
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad latitude %q", ErrMalformed, parts[1])
		}

		// Third component is altitude; this map is 2D.
		points = append(points, orb.Point{lon, lat})
	}

	return points, nil
}
