// Package pipeline wires parsing, pruning, classification, aggregation, and
// output assembly into a single build step.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"tacmap/internal/assemble"
	"tacmap/internal/audit"
	"tacmap/internal/borders"
	"tacmap/internal/classify"
	"tacmap/internal/events"
	"tacmap/internal/geometry"
	"tacmap/internal/icons"
	"tacmap/internal/kml"
	"tacmap/internal/layers"
	"tacmap/internal/render"
	"tacmap/internal/stats"
	"tacmap/internal/style"
	"tacmap/internal/types"
	"tacmap/internal/walker"
)

// ErrCorruptInput marks input the build cannot recover from: a missing or
// non-folder root, or style references without any style table. Everything
// else degrades to warnings.
var ErrCorruptInput = errors.New("corrupt input")

// Config configures a build.
type Config struct {
	KMLPath      string
	ImagesDir    string // extracted KMZ images, optional
	OutputDir    string
	EventsPath   string // filtered event dataset, optional
	StatsPath    string // statistics snapshot, optional
	BordersPath  string // Natural Earth geojson, optional
	AuditDB      string // run-history database path, optional
	Title        string
	IconSize     int
	Workers      int
	ShowProgress bool // progress bar during icon preparation

	// FetchBorders enables the Overpass fallback when BordersPath is
	// missing or unreadable. Off by default: builds should not need the
	// network.
	FetchBorders     bool
	OverpassEndpoint string
}

// Report summarizes a completed build.
type Report struct {
	ArtifactPath string
	Layers       []types.Layer
	Counts       map[string]int
	Warnings     []audit.Warning
	Started      time.Time
	Finished     time.Time
}

// Builder runs the build pipeline.
type Builder struct {
	cfg    Config
	logger *slog.Logger
}

// NewBuilder validates the config and prepares a builder.
func NewBuilder(cfg Config, logger *slog.Logger) (*Builder, error) {
	if cfg.KMLPath == "" {
		return nil, fmt.Errorf("kml path is required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output dir is required")
	}
	if cfg.Title == "" {
		cfg.Title = "Tactical Map"
	}
	return &Builder{cfg: cfg, logger: logger}, nil
}

// Build runs one pass: parse, walk, classify, aggregate, assemble, render.
// A run with warnings still produces a complete artifact; only corrupt input
// aborts.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	started := time.Now()
	log := audit.NewLog()

	b.log().Info("Parsing source document", "path", b.cfg.KMLPath)
	root, table, err := kml.ParseFile(b.cfg.KMLPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptInput, err)
	}
	if !root.Folder {
		return nil, fmt.Errorf("%w: root node is not a folder", ErrCorruptInput)
	}
	if table.Empty() && hasStyleRefs(root) {
		return nil, fmt.Errorf("%w: style references present but style table is empty", ErrCorruptInput)
	}

	resolver := style.NewResolver(table, style.Default())
	agg := layers.New(layers.DefaultVisibility())

	b.log().Info("Classifying features")
	w := walker.New(nil, log)
	w.Walk(root, func(v walker.Visit) {
		b.classifyPlacemark(v, resolver, agg, log)
	})

	b.addBorders(agg, log)

	layerList := agg.Layers()
	counts := types.FeatureCounts(layerList)

	eventData := b.loadEvents(log)
	statsData := b.loadStats(log)

	b.prepareIcons(ctx, log)

	artifactPath := filepath.Join(b.cfg.OutputDir, "index.html")
	b.log().Info("Writing artifact", "path", artifactPath)
	if err := render.Write(artifactPath, render.Page{
		Title:     b.cfg.Title,
		Layers:    assemble.Layers(layerList),
		Events:    eventData,
		Stats:     statsData,
		Generated: started,
	}); err != nil {
		return nil, err
	}

	finished := time.Now()
	report := &Report{
		ArtifactPath: artifactPath,
		Layers:       layerList,
		Counts:       counts,
		Warnings:     log.Warnings(),
		Started:      started,
		Finished:     finished,
	}

	b.recordRun(report)

	b.log().Info("Build complete",
		"features", counts["total"],
		"warnings", log.Len(),
		"summary", log.Summary(),
	)

	return report, nil
}

// classifyPlacemark resolves style and geometry for one placemark and adds
// the classified feature to its bucket. Style and geometry failures degrade
// to warnings; the feature's name and style still reach the audit trail.
func (b *Builder) classifyPlacemark(v walker.Visit, resolver *style.Resolver, agg *layers.Aggregator, log *audit.Log) {
	node := v.Node

	resolved, err := resolver.Resolve(node.Inline, node.StyleURL)
	if err != nil {
		log.Add(audit.UnresolvedStyle, node.Name, err.Error())
	}

	kind := kml.KindNone
	if node.Geometry != nil {
		kind = node.Geometry.Kind
	}

	geom, err := geometry.Normalize(node.Geometry)
	if err != nil {
		log.Add(audit.MalformedGeometry, node.Name, fmt.Sprintf("style %q: %v", node.StyleURL, err))
		return
	}

	tag := classify.Classify(classify.Input{
		Name:  node.Name,
		Path:  v.Path,
		Style: resolved,
		Kind:  kind,
	})

	agg.Add(types.Feature{
		Name:     node.Name,
		Folder:   v.Path,
		Tag:      tag,
		Geometry: geom,
		Style:    resolved,
		Historic: classify.Historic(node.Name),
	})
}

// borderSpecs are the configured border layers: query, tag, and style.
var borderSpecs = []struct {
	query string
	tag   types.LayerTag
	style types.Style
}{
	{"UKR", types.LayerUaBorder, types.Style{Stroke: "#6AA8FF", Width: 3.5}},
	{"RUS", types.LayerRuBorder, types.Style{Stroke: "#804E4E", Width: 2.2}},
}

var borderNames = map[types.LayerTag]string{
	types.LayerUaBorder: "Ukraine",
	types.LayerRuBorder: "Russia",
}

func (b *Builder) addBorders(agg *layers.Aggregator, log *audit.Log) {
	if b.cfg.BordersPath != "" {
		queries := make([]string, len(borderSpecs))
		for i, spec := range borderSpecs {
			queries[i] = spec.query
		}

		countries, err := borders.LoadFile(b.cfg.BordersPath, queries)
		if err == nil {
			for i, country := range countries {
				agg.Add(types.Feature{
					Name:     country.Name,
					Tag:      borderSpecs[i].tag,
					Geometry: country.Geometry,
					Style:    borderSpecs[i].style,
				})
			}
			return
		}
		log.Add(audit.MissingDataset, b.cfg.BordersPath, err.Error())
	}

	if !b.cfg.FetchBorders {
		if b.cfg.BordersPath == "" {
			log.Add(audit.MissingDataset, "borders", "no borders file configured")
		}
		return
	}

	fetcher := borders.NewFetcher(b.cfg.OverpassEndpoint)
	for _, spec := range borderSpecs {
		name := borderNames[spec.tag]
		b.log().Info("Fetching boundary", "country", name)
		country, err := fetcher.FetchBoundary(name)
		if err != nil {
			log.Add(audit.MissingDataset, name, err.Error())
			continue
		}
		agg.Add(types.Feature{
			Name:     country.Name,
			Tag:      spec.tag,
			Geometry: country.Geometry,
			Style:    spec.style,
		})
	}
}

func (b *Builder) loadEvents(log *audit.Log) *events.Dataset {
	if b.cfg.EventsPath == "" {
		return events.Empty()
	}
	ds, err := events.Load(b.cfg.EventsPath)
	if err != nil {
		log.Add(audit.MissingDataset, b.cfg.EventsPath, err.Error())
		return events.Empty()
	}
	b.log().Info("Loaded event dataset", "count", ds.Meta.Count, "from", ds.Meta.MinDate, "to", ds.Meta.MaxDate)
	return ds
}

func (b *Builder) loadStats(log *audit.Log) *stats.Snapshot {
	if b.cfg.StatsPath == "" {
		return nil
	}
	snap, err := stats.Load(b.cfg.StatsPath)
	if err != nil {
		log.Add(audit.MissingDataset, b.cfg.StatsPath, err.Error())
		return nil
	}
	return snap
}

func (b *Builder) prepareIcons(ctx context.Context, log *audit.Log) {
	if b.cfg.ImagesDir == "" {
		return
	}

	dst := filepath.Join(b.cfg.OutputDir, "images")
	written, failures, err := icons.Prepare(ctx, b.cfg.ImagesDir, dst, b.cfg.IconSize, b.cfg.Workers, b.cfg.ShowProgress)
	if err != nil {
		log.Add(audit.MissingDataset, b.cfg.ImagesDir, err.Error())
		return
	}
	for _, fail := range failures {
		log.Add(audit.MissingDataset, "icon", fail.Error())
	}
	b.log().Info("Prepared marker icons", "written", written, "failed", len(failures))
}

func (b *Builder) recordRun(report *Report) {
	if b.cfg.AuditDB == "" {
		return
	}

	store, err := audit.OpenStore(b.cfg.AuditDB)
	if err != nil {
		b.log().Warn("Failed to open audit store", "error", err)
		return
	}
	defer store.Close() // nolint:errcheck

	runID, err := store.RecordRun(audit.RunSummary{
		StartedAt:  report.Started,
		FinishedAt: report.Finished,
		Source:     b.cfg.KMLPath,
		Features:   report.Counts["total"],
	}, report.Warnings)
	if err != nil {
		b.log().Warn("Failed to record run", "error", err)
		return
	}

	b.log().Debug("Run recorded", "run_id", runID)
}

// hasStyleRefs reports whether any placemark references a shared style.
func hasStyleRefs(root *kml.Node) bool {
	stack := []*kml.Node{root}
	seen := map[*kml.Node]bool{root: true}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !node.Folder && node.StyleURL != "" && node.Inline == nil {
			return true
		}
		for _, child := range node.Children {
			if !seen[child] {
				seen[child] = true
				stack = append(stack, child)
			}
		}
	}

	return false
}

func (b *Builder) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return slog.Default()
}
