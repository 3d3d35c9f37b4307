package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tacmap/internal/kml"
)

const defaultKMZURL = "https://raw.githubusercontent.com/owlmaps/UAControlMapBackups/master/latest.kmz"

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download and extract the latest KMZ source",
	Long: `Update fetches the current KMZ snapshot and unpacks doc.kml and the
images directory into the assets directory, ready for a build.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().String("url", defaultKMZURL, "KMZ source URL")
	updateCmd.Flags().Duration("timeout", 2*time.Minute, "Download timeout")
	updateCmd.Flags().Bool("keep-archive", false, "Keep the downloaded KMZ after extraction")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"update.url", "url"},
		{"update.timeout", "timeout"},
		{"update.keep_archive", "keep-archive"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, updateCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	assetsDir := viper.GetString("assets-dir")
	url := viper.GetString("update.url")
	kmzPath := filepath.Join(assetsDir, "latest.kmz")

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("update.timeout"))
	defer cancel()

	logger.Info("Downloading KMZ", "url", url, "dest", kmzPath)
	if err := kml.DownloadKMZ(ctx, url, kmzPath); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	logger.Info("Extracting archive", "dest", assetsDir)
	if err := kml.ExtractKMZ(kmzPath, assetsDir); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if !viper.GetBool("update.keep_archive") {
		if err := os.Remove(kmzPath); err != nil {
			logger.Warn("Failed to remove archive", "path", kmzPath, "error", err)
		}
	}

	logger.Info("Source updated", "kml", filepath.Join(assetsDir, "doc.kml"))
	return nil
}
