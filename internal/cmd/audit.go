package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tacmap/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recorded build runs",
	Long:  `Audit lists recent build runs from the run-history database, with per-run warnings when requested.`,
	RunE:  runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().String("db", "tacmap.db", "Run-history database path")
	auditCmd.Flags().IntP("limit", "n", 10, "Number of runs to show")
	auditCmd.Flags().Int64("run", 0, "Show warnings for a specific run id")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"audit.db", "db"},
		{"audit.limit", "limit"},
		{"audit.run", "run"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, auditCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runAudit(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	store, err := audit.OpenStore(viper.GetString("audit.db"))
	if err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	defer store.Close() // nolint:errcheck

	if runID := viper.GetInt64("audit.run"); runID > 0 {
		return printRunWarnings(store, runID)
	}

	runs, err := store.RecentRuns(viper.GetInt("audit.limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tSOURCE\tFEATURES\tWARNINGS")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
			run.Source,
			run.Features,
			run.Warnings,
		)
	}
	return w.Flush()
}

func printRunWarnings(store *audit.Store, runID int64) error {
	warnings, err := store.RunWarnings(runID)
	if err != nil {
		return fmt.Errorf("failed to list warnings: %w", err)
	}
	if len(warnings) == 0 {
		fmt.Printf("Run %d recorded no warnings.\n", runID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tSUBJECT\tCOUNT\tDETAIL")
	for _, warn := range warnings {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", warn.Kind, warn.Subject, warn.Count, warn.Detail)
	}
	return w.Flush()
}
