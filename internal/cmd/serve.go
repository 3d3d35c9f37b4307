package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tacmap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated artifact locally",
	Long:  `Serve starts a local HTTP server over the output directory for previewing the map.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", ":8080", "Listen address")
	serveCmd.Flags().String("cache-control", "", "Cache-Control header value (default: no-cache)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"serve.addr", "addr"},
		{"serve.cache_control", "cache-control"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, serveCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	srv, err := server.NewStatic(server.Config{
		Dir:          viper.GetString("output-dir"),
		CacheControl: viper.GetString("serve.cache_control"),
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to init server: %w", err)
	}

	return srv.ListenAndServe(viper.GetString("serve.addr"))
}
