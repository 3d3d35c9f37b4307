package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tacmap/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the map artifact",
	Long:  `Build classifies the KML source into layers and writes the interactive map artifact.`,
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("kml", "", "KML source path (default: <assets-dir>/doc.kml)")
	buildCmd.Flags().String("events", "", "Filtered event dataset path (optional)")
	buildCmd.Flags().String("stats", "", "Statistics snapshot path (optional)")
	buildCmd.Flags().String("borders", "", "Country borders GeoJSON path (optional)")
	buildCmd.Flags().Bool("fetch-borders", false, "Fetch national boundaries from Overpass when no borders file is given")
	buildCmd.Flags().String("overpass-endpoint", "", "Overpass API endpoint override")
	buildCmd.Flags().String("audit-db", "", "Run-history database path (optional)")
	buildCmd.Flags().String("title", "Tactical Map", "Artifact page title")
	buildCmd.Flags().Int("icon-size", 22, "Marker icon size in pixels")
	buildCmd.Flags().IntP("workers", "w", 0, "Parallel workers for icon preparation (default: number of CPUs)")
	buildCmd.Flags().Bool("progress", true, "Show progress bar during icon preparation")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"build.kml", "kml"},
		{"build.events", "events"},
		{"build.stats", "stats"},
		{"build.borders", "borders"},
		{"build.fetch_borders", "fetch-borders"},
		{"build.overpass_endpoint", "overpass-endpoint"},
		{"build.audit_db", "audit-db"},
		{"build.title", "title"},
		{"build.icon_size", "icon-size"},
		{"build.workers", "workers"},
		{"build.progress", "progress"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, buildCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	assetsDir := viper.GetString("assets-dir")
	outputDir := viper.GetString("output-dir")

	kmlPath := viper.GetString("build.kml")
	if kmlPath == "" {
		kmlPath = filepath.Join(assetsDir, "doc.kml")
	}

	imagesDir := filepath.Join(assetsDir, "images")
	if _, err := os.Stat(imagesDir); err != nil {
		imagesDir = ""
	}

	workers := viper.GetInt("build.workers")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	cfg := pipeline.Config{
		KMLPath:          kmlPath,
		ImagesDir:        imagesDir,
		OutputDir:        outputDir,
		EventsPath:       viper.GetString("build.events"),
		StatsPath:        viper.GetString("build.stats"),
		BordersPath:      viper.GetString("build.borders"),
		FetchBorders:     viper.GetBool("build.fetch_borders"),
		OverpassEndpoint: viper.GetString("build.overpass_endpoint"),
		AuditDB:          viper.GetString("build.audit_db"),
		Title:            viper.GetString("build.title"),
		IconSize:         viper.GetInt("build.icon_size"),
		Workers:          workers,
		ShowProgress:     viper.GetBool("build.progress"),
	}

	logger.Info("Starting build",
		"kml", cfg.KMLPath,
		"output_dir", cfg.OutputDir,
		"events", cfg.EventsPath,
		"stats", cfg.StatsPath,
		"workers", workers,
	)

	builder, err := pipeline.NewBuilder(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to init builder: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	report, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	for _, w := range report.Warnings {
		logger.Warn("Build warning", "kind", string(w.Kind), "subject", w.Subject, "detail", w.Detail)
	}

	logger.Info("Artifact written",
		"path", report.ArtifactPath,
		"features", report.Counts["total"],
		"warnings", len(report.Warnings),
	)

	return nil
}
