// Package kml parses tactical KML documents into a raw node tree plus a
// style table, the inputs of the classification pipeline.
package kml

import "encoding/xml"

// GeometryKind marks the geometry variant attached to a placemark.
type GeometryKind string

const (
	KindPoint      GeometryKind = "point"
	KindLineString GeometryKind = "linestring"
	KindPolygon    GeometryKind = "polygon"
	KindMulti      GeometryKind = "multi"
	KindUnknown    GeometryKind = "unknown"
	KindNone       GeometryKind = ""
)

// RawGeometry is the unparsed geometry of a placemark. Coordinates holds the
// raw tuple text for points and lines; Rings holds per-ring tuple text for
// polygons (outer ring first); Members holds nested geometries for
// MultiGeometry.
type RawGeometry struct {
	Kind        GeometryKind
	Coordinates string
	Rings       []string
	Members     []*RawGeometry
}

// RawStyle is a style definition as it appears in the source document.
// Colors are KML-encoded (aabbggrr).
type RawStyle struct {
	Icon      string
	LineColor string
	LineWidth float64
	PolyColor string
}

// Node is a folder or placemark from the source tree. Folders carry
// Children; placemarks carry Geometry and style information. The tree is
// read-only after parsing.
type Node struct {
	Name     string
	Folder   bool
	Children []*Node
	Geometry *RawGeometry
	StyleURL string
	Inline   *RawStyle
	Extended map[string]string
}

// StyleTable holds shared style definitions and style-map indirections,
// keyed by id without the leading '#'.
type StyleTable struct {
	Styles map[string]RawStyle
	Maps   map[string]string // style-map id -> "normal" pair target id
}

// Empty reports whether the table has no definitions at all.
func (t *StyleTable) Empty() bool {
	return t == nil || (len(t.Styles) == 0 && len(t.Maps) == 0)
}

// --- XML DTOs ---

type kmlRoot struct {
	XMLName  xml.Name     `xml:"kml"`
	Document *documentDTO `xml:"Document"`
}

type documentDTO struct {
	Name       string         `xml:"name"`
	Styles     []styleDTO     `xml:"Style"`
	StyleMaps  []styleMapDTO  `xml:"StyleMap"`
	Folders    []folderDTO    `xml:"Folder"`
	Placemarks []placemarkDTO `xml:"Placemark"`
}

type folderDTO struct {
	Name       string         `xml:"name"`
	Folders    []folderDTO    `xml:"Folder"`
	Placemarks []placemarkDTO `xml:"Placemark"`
}

type placemarkDTO struct {
	Name          string      `xml:"name"`
	StyleURL      string      `xml:"styleUrl"`
	Style         *styleDTO   `xml:"Style"`
	Point         *coordsDTO  `xml:"Point"`
	LineString    *coordsDTO  `xml:"LineString"`
	Polygon       *polygonDTO `xml:"Polygon"`
	MultiGeometry *multiDTO   `xml:"MultiGeometry"`
	ExtendedData  *extDataDTO `xml:"ExtendedData"`
}

type coordsDTO struct {
	Coordinates string `xml:"coordinates"`
}

type polygonDTO struct {
	Outer ringHolderDTO   `xml:"outerBoundaryIs"`
	Inner []ringHolderDTO `xml:"innerBoundaryIs"`
}

type ringHolderDTO struct {
	LinearRing coordsDTO `xml:"LinearRing"`
}

type multiDTO struct {
	Points      []coordsDTO  `xml:"Point"`
	LineStrings []coordsDTO  `xml:"LineString"`
	Polygons    []polygonDTO `xml:"Polygon"`
}

type extDataDTO struct {
	Data []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value"`
	} `xml:"Data"`
}

type styleDTO struct {
	ID        string `xml:"id,attr"`
	IconStyle *struct {
		Icon struct {
			Href string `xml:"href"`
		} `xml:"Icon"`
	} `xml:"IconStyle"`
	LineStyle *struct {
		Color string  `xml:"color"`
		Width float64 `xml:"width"`
	} `xml:"LineStyle"`
	PolyStyle *struct {
		Color string `xml:"color"`
	} `xml:"PolyStyle"`
}

type styleMapDTO struct {
	ID    string `xml:"id,attr"`
	Pairs []struct {
		Key      string `xml:"key"`
		StyleURL string `xml:"styleUrl"`
	} `xml:"Pair"`
}
