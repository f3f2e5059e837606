package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tax-estimator/cli"
	"tax-estimator/service"
)

var jurisdictionsCmd = &cobra.Command{
	Use:   "jurisdictions",
	Short: "List supported jurisdictions and their flat rates",
	RunE:  runJurisdictions,
}

func init() {
	rootCmd.AddCommand(jurisdictionsCmd)
}

func runJurisdictions(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	schedule, err := service.LookupSchedule(cfg.Tax.Schedule)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderJurisdictions(schedule.Name, schedule.Jurisdictions()))
	return nil
}
