package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tax-estimator/cli"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent estimates",
	Long:  "Show recent estimates. Only the sqlite history backend outlives a single process.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Backend != "sqlite" {
		fmt.Println("  History is kept in memory; set history.backend = \"sqlite\" to persist it.")
		return nil
	}

	svc, cleanup, err := buildService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := svc.History(cmd.Context(), flagLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("  No estimates recorded yet.")
		return nil
	}
	fmt.Println(cli.RenderHistory(entries))
	return nil
}
