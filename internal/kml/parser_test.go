package kml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
  <name>Tactical Map</name>
  <Style id="front">
    <LineStyle><color>ff0000ff</color><width>3.5</width></LineStyle>
    <PolyStyle><color>7f0000ff</color></PolyStyle>
  </Style>
  <Style id="ukr-unit">
    <IconStyle><Icon><href>https://example.com/icons/ukr_inf.png</href></Icon></IconStyle>
  </Style>
  <StyleMap id="front-map">
    <Pair><key>normal</key><styleUrl>#front</styleUrl></Pair>
    <Pair><key>highlight</key><styleUrl>#front-hl</styleUrl></Pair>
  </StyleMap>
  <Folder>
    <name>Frontline</name>
    <Placemark>
      <name>Front line east</name>
      <styleUrl>#front-map</styleUrl>
      <LineString><coordinates>36.0,48.0 37.0,48.5</coordinates></LineString>
    </Placemark>
  </Folder>
  <Folder>
    <name>Ukrainian Unit Positions</name>
    <Placemark>
      <name>92nd Brigade</name>
      <styleUrl>#ukr-unit</styleUrl>
      <Point><coordinates>36.5,49.9,0</coordinates></Point>
    </Placemark>
    <Folder>
      <name>Reserves</name>
      <Placemark>
        <name>Reserve group</name>
        <Point><coordinates>35.0,49.0</coordinates></Point>
      </Placemark>
    </Folder>
  </Folder>
  <Placemark>
    <name>Controlled area</name>
    <Polygon>
      <outerBoundaryIs><LinearRing><coordinates>36.0,48.0 37.0,48.0 37.0,49.0 36.0,48.0</coordinates></LinearRing></outerBoundaryIs>
    </Polygon>
  </Placemark>
</Document>
</kml>`

func TestParse_Tree(t *testing.T) {
	root, _, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	require.True(t, root.Folder)
	require.Equal(t, "Tactical Map", root.Name)
	require.Len(t, root.Children, 3)

	frontline := root.Children[0]
	require.True(t, frontline.Folder)
	require.Equal(t, "Frontline", frontline.Name)
	require.Len(t, frontline.Children, 1)

	pm := frontline.Children[0]
	require.False(t, pm.Folder)
	require.Equal(t, "Front line east", pm.Name)
	require.Equal(t, "front-map", pm.StyleURL, "leading '#' is stripped")
	require.NotNil(t, pm.Geometry)
	require.Equal(t, KindLineString, pm.Geometry.Kind)

	units := root.Children[1]
	require.Len(t, units.Children, 2)
	require.True(t, units.Children[1].Folder, "nested folders survive")

	loose := root.Children[2]
	require.False(t, loose.Folder)
	require.Equal(t, KindPolygon, loose.Geometry.Kind)
	require.Len(t, loose.Geometry.Rings, 1)
}

func TestParse_StyleTable(t *testing.T) {
	_, table, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	front, ok := table.Styles["front"]
	require.True(t, ok)
	require.Equal(t, "ff0000ff", front.LineColor)
	require.InDelta(t, 3.5, front.LineWidth, 0.001)
	require.Equal(t, "7f0000ff", front.PolyColor)

	unit, ok := table.Styles["ukr-unit"]
	require.True(t, ok)
	require.Equal(t, "ukr_inf.png", unit.Icon, "icon href reduced to its base name")

	require.Equal(t, "front", table.Maps["front-map"], "style map resolves its normal pair")
	require.False(t, table.Empty())
}

func TestParse_InlineStyle(t *testing.T) {
	doc := `<kml><Document><name>d</name><Placemark>
		<name>p</name>
		<Style><LineStyle><color>ff00ff00</color><width>2</width></LineStyle></Style>
		<Point><coordinates>30.0,50.0</coordinates></Point>
	</Placemark></Document></kml>`

	root, _, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	pm := root.Children[0]
	require.NotNil(t, pm.Inline)
	require.Equal(t, "ff00ff00", pm.Inline.LineColor)
}

func TestParse_MultiGeometry(t *testing.T) {
	doc := `<kml><Document><name>d</name><Placemark>
		<name>m</name>
		<MultiGeometry>
			<Point><coordinates>30.0,50.0</coordinates></Point>
			<LineString><coordinates>30.0,50.0 31.0,50.5</coordinates></LineString>
		</MultiGeometry>
	</Placemark></Document></kml>`

	root, _, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	geom := root.Children[0].Geometry
	require.Equal(t, KindMulti, geom.Kind)
	require.Len(t, geom.Members, 2)
	require.Equal(t, KindPoint, geom.Members[0].Kind)
	require.Equal(t, KindLineString, geom.Members[1].Kind)
}

func TestParse_ExtendedData(t *testing.T) {
	doc := `<kml><Document><name>d</name><Placemark>
		<name>p</name>
		<ExtendedData><Data name="side"><value>ua</value></Data></ExtendedData>
		<Point><coordinates>30.0,50.0</coordinates></Point>
	</Placemark></Document></kml>`

	root, _, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "ua", root.Children[0].Extended["side"])
}

func TestParse_MissingDocument(t *testing.T) {
	_, _, err := Parse(strings.NewReader(`<kml></kml>`))
	require.Error(t, err)
}

func TestParse_EmptyDocument(t *testing.T) {
	_, _, err := Parse(strings.NewReader(`<kml><Document><name>empty</name></Document></kml>`))
	require.Error(t, err)
}

func TestParse_InvalidXML(t *testing.T) {
	_, _, err := Parse(strings.NewReader(`<kml><Document><Folder>`))
	require.Error(t, err)
}

func TestStyleTable_Empty(t *testing.T) {
	var nilTable *StyleTable
	require.True(t, nilTable.Empty())
	require.True(t, (&StyleTable{}).Empty())
	require.False(t, (&StyleTable{Maps: map[string]string{"a": "b"}}).Empty())
}
