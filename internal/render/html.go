// Package render writes the final self-contained map page. The layer data,
// event dataset, and stats snapshot are embedded as JSON globals; a small
// Leaflet bootstrap builds the layers and the toggle dock from the manifest.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"tacmap/internal/assemble"
	"tacmap/internal/events"
	"tacmap/internal/stats"
)

// Page is everything embedded into the artifact.
type Page struct {
	Title     string
	Layers    []assemble.LayerOutput
	Events    *events.Dataset
	Stats     *stats.Snapshot
	Generated time.Time
}

type pageData struct {
	Title       string
	GeneratedAt string
	Layers      template.JS
	Events      template.JS
	EventsMeta  template.JS
	Stats       template.JS
}

// Write renders the artifact to path, creating parent directories.
func Write(path string, page Page) error {
	layersJSON, err := assemble.EncodeJSON(page.Layers)
	if err != nil {
		return err
	}

	ev := page.Events
	if ev == nil {
		ev = events.Empty()
	}
	eventsJSON, err := json.Marshal(ev.Collection)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	metaJSON, err := json.Marshal(ev.Meta)
	if err != nil {
		return fmt.Errorf("failed to marshal events meta: %w", err)
	}

	statsJSON := []byte("null")
	if page.Stats != nil {
		if statsJSON, err = json.Marshal(page.Stats); err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	defer out.Close() // nolint:errcheck

	data := pageData{
		Title:       page.Title,
		GeneratedAt: page.Generated.UTC().Format("2006-01-02 15:04:05 UTC"),
		Layers:      template.JS(layersJSON),
		Events:      template.JS(eventsJSON),
		EventsMeta:  template.JS(metaJSON),
		Stats:       template.JS(statsJSON),
	}

	if err := pageTemplate.Execute(out, data); err != nil {
		return fmt.Errorf("failed to render artifact: %w", err)
	}

	return nil
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; background: #111; }
  #dock {
    position: fixed; bottom: 20px; right: 20px; z-index: 9999;
    background: rgba(0,0,0,0.78); color: #EDEDED;
    padding: 10px 12px; border-radius: 12px;
    border: 1px solid rgba(255,255,255,0.18);
    font: 13px/1.35 Arial, sans-serif; min-width: 220px;
  }
  #dock .row { display: flex; align-items: center; gap: 8px; margin: 5px 0; cursor: pointer; }
  #dock .title { font-weight: 900; margin-bottom: 6px; }
  #dock .meta { opacity: .6; font-size: 11px; margin-top: 8px; }
</style>
</head>
<body>
<div id="map"></div>
<div id="dock">
  <div class="title">Layers</div>
  <div id="dockRows"></div>
  <div class="meta">Generated: {{.GeneratedAt}}</div>
</div>
<script>
window.__layers = {{.Layers}};
window.__events = {{.Events}};
window.__events_meta = {{.EventsMeta}};
window.__stats = {{.Stats}};

(function() {
  var map = L.map("map").setView([48.5, 36.0], 6);
  L.tileLayer("https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png", {
    attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
    maxZoom: 19
  }).addTo(map);

  function styleFor(feat) {
    var p = (feat && feat.properties) || {};
    return {
      color: p.stroke || "#888888",
      weight: p.stroke_width || 2,
      fillColor: p.fill || "#2F2F2F",
      fillOpacity: 0.25,
      opacity: 0.9
    };
  }

  function pointFor(feat, latlng) {
    var p = (feat && feat.properties) || {};
    if (p.icon) {
      return L.marker(latlng, {
        icon: L.icon({ iconUrl: "images/" + p.icon, iconSize: [22, 22] })
      });
    }
    return L.circleMarker(latlng, {
      radius: 3, weight: 1, color: p.stroke || "#888888", fillOpacity: 0.9
    });
  }

  var rows = document.getElementById("dockRows");
  (window.__layers || []).forEach(function(entry) {
    var group = L.geoJSON(entry.collection, {
      style: styleFor,
      pointToLayer: pointFor,
      onEachFeature: function(feat, layer) {
        var p = (feat && feat.properties) || {};
        if (p.name) layer.bindPopup(p.name);
      }
    });
    if (entry.manifest.default_visible) group.addTo(map);

    var row = document.createElement("label");
    row.className = "row";
    var cb = document.createElement("input");
    cb.type = "checkbox";
    cb.checked = entry.manifest.default_visible;
    cb.addEventListener("change", function() {
      if (cb.checked) map.addLayer(group); else map.removeLayer(group);
    });
    var span = document.createElement("span");
    span.textContent = entry.manifest.label + " (" + entry.manifest.features + ")";
    row.appendChild(cb);
    row.appendChild(span);
    rows.appendChild(row);
  });

  if (window.__events && window.__events.features && window.__events.features.length) {
    var ev = L.geoJSON(window.__events, {
      pointToLayer: function(feat, latlng) {
        var p = (feat && feat.properties) || {};
        var r = 2 + Math.min(10, Math.sqrt(p.best || 0));
        return L.circleMarker(latlng, { radius: r, weight: 1, color: "#FFD166", fillOpacity: 0.55 });
      }
    });
    var row = document.createElement("label");
    row.className = "row";
    var cb = document.createElement("input");
    cb.type = "checkbox";
    cb.addEventListener("change", function() {
      if (cb.checked) map.addLayer(ev); else map.removeLayer(ev);
    });
    var span = document.createElement("span");
    span.textContent = "Events (" + window.__events.features.length + ")";
    row.appendChild(cb);
    row.appendChild(span);
    rows.appendChild(row);
  }
})();
</script>
</body>
</html>
`))
