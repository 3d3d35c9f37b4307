package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Parse decodes a KML document into the raw node tree and its style table.
// The returned root node is the Document folder; an input without a Document
// element (or without any folders or placemarks under it) is rejected here so
// callers can fail fast before classification.
func Parse(r io.Reader) (*Node, *StyleTable, error) {
	var root kmlRoot
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, nil, fmt.Errorf("failed to decode kml: %w", err)
	}

	if root.Document == nil {
		return nil, nil, fmt.Errorf("kml document element missing")
	}

	table := &StyleTable{
		Styles: make(map[string]RawStyle),
		Maps:   make(map[string]string),
	}
	for _, s := range root.Document.Styles {
		if s.ID == "" {
			continue
		}
		table.Styles[s.ID] = convertStyle(&s)
	}
	for _, sm := range root.Document.StyleMaps {
		if sm.ID == "" {
			continue
		}
		for _, pair := range sm.Pairs {
			if strings.TrimSpace(pair.Key) == "normal" && pair.StyleURL != "" {
				table.Maps[sm.ID] = strings.TrimPrefix(strings.TrimSpace(pair.StyleURL), "#")
				break
			}
		}
	}

	node := &Node{
		Name:   strings.TrimSpace(root.Document.Name),
		Folder: true,
	}
	for i := range root.Document.Folders {
		node.Children = append(node.Children, convertFolder(&root.Document.Folders[i]))
	}
	for i := range root.Document.Placemarks {
		node.Children = append(node.Children, convertPlacemark(&root.Document.Placemarks[i]))
	}

	if len(node.Children) == 0 {
		return nil, nil, fmt.Errorf("kml document has no folders or placemarks")
	}

	return node, table, nil
}

// ParseFile parses a KML file from disk.
func ParseFile(path string) (*Node, *StyleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open kml: %w", err)
	}
	defer f.Close() // nolint:errcheck

	return Parse(f)
}

func convertFolder(dto *folderDTO) *Node {
	node := &Node{
		Name:   strings.TrimSpace(dto.Name),
		Folder: true,
	}
	for i := range dto.Folders {
		node.Children = append(node.Children, convertFolder(&dto.Folders[i]))
	}
	for i := range dto.Placemarks {
		node.Children = append(node.Children, convertPlacemark(&dto.Placemarks[i]))
	}
	return node
}

func convertPlacemark(dto *placemarkDTO) *Node {
	node := &Node{
		Name:     strings.TrimSpace(dto.Name),
		StyleURL: strings.TrimPrefix(strings.TrimSpace(dto.StyleURL), "#"),
		Geometry: convertGeometry(dto),
	}

	if dto.Style != nil {
		inline := convertStyle(dto.Style)
		node.Inline = &inline
	}

	if dto.ExtendedData != nil && len(dto.ExtendedData.Data) > 0 {
		node.Extended = make(map[string]string, len(dto.ExtendedData.Data))
		for _, d := range dto.ExtendedData.Data {
			node.Extended[d.Name] = strings.TrimSpace(d.Value)
		}
	}

	return node
}

func convertGeometry(dto *placemarkDTO) *RawGeometry {
	switch {
	case dto.Point != nil:
		return &RawGeometry{Kind: KindPoint, Coordinates: dto.Point.Coordinates}
	case dto.LineString != nil:
		return &RawGeometry{Kind: KindLineString, Coordinates: dto.LineString.Coordinates}
	case dto.Polygon != nil:
		return convertPolygon(dto.Polygon)
	case dto.MultiGeometry != nil:
		multi := &RawGeometry{Kind: KindMulti}
		for _, p := range dto.MultiGeometry.Points {
			multi.Members = append(multi.Members, &RawGeometry{Kind: KindPoint, Coordinates: p.Coordinates})
		}
		for _, l := range dto.MultiGeometry.LineStrings {
			multi.Members = append(multi.Members, &RawGeometry{Kind: KindLineString, Coordinates: l.Coordinates})
		}
		for i := range dto.MultiGeometry.Polygons {
			multi.Members = append(multi.Members, convertPolygon(&dto.MultiGeometry.Polygons[i]))
		}
		return multi
	default:
		return nil
	}
}

func convertPolygon(dto *polygonDTO) *RawGeometry {
	geom := &RawGeometry{Kind: KindPolygon}
	geom.Rings = append(geom.Rings, dto.Outer.LinearRing.Coordinates)
	for _, inner := range dto.Inner {
		geom.Rings = append(geom.Rings, inner.LinearRing.Coordinates)
	}
	return geom
}

func convertStyle(dto *styleDTO) RawStyle {
	var s RawStyle
	if dto.IconStyle != nil {
		if href := strings.TrimSpace(dto.IconStyle.Icon.Href); href != "" {
			s.Icon = path.Base(href)
		}
	}
	if dto.LineStyle != nil {
		s.LineColor = strings.TrimSpace(dto.LineStyle.Color)
		s.LineWidth = dto.LineStyle.Width
	}
	if dto.PolyStyle != nil {
		s.PolyColor = strings.TrimSpace(dto.PolyStyle.Color)
	}
	return s
}
