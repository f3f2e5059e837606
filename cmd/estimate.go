package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tax-estimator/cli"
	"tax-estimator/domain"
	httpLayer "tax-estimator/http"
)

var (
	flagMode         string
	flagAmount       float64
	flagJurisdiction string
	flagFiling       string
	flagDeduction    string
	flagItemized     float64
	flagEssential    bool
	flagJSON         bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate a tax breakdown",
	Example: `  taxestimator estimate --mode income --amount 85000 --jurisdiction CA
  taxestimator estimate --mode sales --amount 100 --jurisdiction TX --essential
  taxestimator estimate --mode property --amount 500000 --jurisdiction IL --json`,
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.StringVarP(&flagMode, "mode", "m", "income", "income, sales or property")
	f.Float64VarP(&flagAmount, "amount", "a", 0, "Gross income, purchase amount or assessed value")
	f.StringVarP(&flagJurisdiction, "jurisdiction", "j", "CA", "State code")
	f.StringVar(&flagFiling, "filing-status", "single", "single, married-joint, married-separate or head")
	f.StringVar(&flagDeduction, "deduction", "standard", "standard or itemized")
	f.Float64Var(&flagItemized, "itemized", 0, "Itemized deduction amount")
	f.BoolVar(&flagEssential, "essential", false, "Purchase is an essential good (sales mode)")
	f.BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, cleanup, err := buildService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	in := domain.TaxInput{
		Mode:         domain.Mode(flagMode),
		Jurisdiction: flagJurisdiction,
	}
	switch in.Mode {
	case domain.ModeIncome:
		in.GrossAnnualIncome = flagAmount
		in.FilingStatus = flagFiling
		in.DeductionMode = flagDeduction
		in.ItemizedAmount = flagItemized
	case domain.ModeSales:
		in.PurchaseAmount = flagAmount
		in.IsEssentialGood = flagEssential
	case domain.ModeProperty:
		in.AssessedValue = flagAmount
	}

	res, err := svc.Estimate(cmd.Context(), in)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(httpLayer.NewEstimateResponse(res))
	}
	fmt.Println(cli.RenderEstimate(res))
	return nil
}
