/*
main.go - Command-line loan calculator

PURPOSE:
  Runs the amortization engine from the terminal without the API server.

COMMANDS:
  schedule   Payment and full amortization schedule
  scenario   One extra payment against the baseline
  compare    Several extra payments side by side

LOAN INPUT:
  Either flags (--principal, --rate, --term, --unit, --frequency, --extra)
  or --file pointing at a loan JSON document ("-" reads stdin). The JSON
  is the same shape the API accepts.

OUTPUT:
  --format table (default), csv or json. Amounts are rounded to cents
  for display; the last row absorbs rounding drift.

EXAMPLES:
  amortize schedule --principal 300000 --rate 6.5 --term 30 --unit years
  amortize scenario --principal 300000 --rate 6.5 --term 360 --extra 200
  amortize compare --file mortgage.json --extras 100,250,500 --format csv

SEE ALSO:
  - output.go: Table, CSV and JSON rendering
  - factory/loan.go: Loan JSON schema
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/loan-engine/amortization"
	"github.com/warp/loan-engine/factory"
	"github.com/warp/loan-engine/logging"
)

// app carries state shared by the subcommands. The root command's
// PersistentPreRunE fills it before any RunE executes.
type app struct {
	logger *zap.Logger
	format string
}

type loanFlags struct {
	file      string
	principal float64
	rate      float64
	term      float64
	unit      string
	frequency string
	extra     float64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newApp().command()
}

func newApp() *app {
	return &app{logger: zap.NewNop()}
}

func (a *app) command() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "amortize",
		Short:        "Loan payment, amortization schedule and extra-payment scenarios",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			l, err := logging.New(level, true)
			if err != nil {
				return err
			}
			a.logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().StringVarP(&a.format, "format", "o", string(formatTable), "output format (table|csv|json)")

	root.AddCommand(
		a.newScheduleCmd(),
		a.newScenarioCmd(),
		a.newCompareCmd(),
	)
	return root
}

func (a *app) newScheduleCmd() *cobra.Command {
	var lf loanFlags

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute the periodic payment and full schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseOutputFormat(a.format)
			if err != nil {
				return err
			}
			def, err := lf.definition(cmd.InOrStdin())
			if err != nil {
				return err
			}

			result, err := amortization.NewCalculator().Compute(def.Parameters)
			if err != nil {
				return err
			}
			a.logger.Debug("schedule computed",
				zap.Float64("payment", result.Payment()),
				zap.Int("periods", result.Schedule.Periods()))

			return renderSchedule(cmd.OutOrStdout(), out, result)
		},
	}
	lf.register(cmd, false)
	return cmd
}

func (a *app) newScenarioCmd() *cobra.Command {
	var lf loanFlags
	var showSchedule bool

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Compare one extra payment against the baseline schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseOutputFormat(a.format)
			if err != nil {
				return err
			}
			def, err := lf.definition(cmd.InOrStdin())
			if err != nil {
				return err
			}

			result, scenario, err := amortization.NewCalculator().Scenario(def.Parameters, def.ExtraPayment)
			if err != nil {
				return err
			}
			a.logger.Debug("scenario computed",
				zap.Float64("extra", scenario.ExtraPayment),
				zap.Int("months_saved", scenario.MonthsSaved))

			return renderScenario(cmd.OutOrStdout(), out, result, scenario, showSchedule)
		},
	}
	lf.register(cmd, true)
	cmd.Flags().BoolVar(&showSchedule, "schedule", false, "also print the accelerated schedule (table output)")
	return cmd
}

func (a *app) newCompareCmd() *cobra.Command {
	var lf loanFlags
	var extras []float64

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare several extra payments against the same baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseOutputFormat(a.format)
			if err != nil {
				return err
			}
			if len(extras) == 0 {
				return fmt.Errorf("--extras is required")
			}
			def, err := lf.definition(cmd.InOrStdin())
			if err != nil {
				return err
			}

			result, scenarios, err := amortization.NewCalculator().Compare(cmd.Context(), def.Parameters, extras)
			if err != nil {
				return err
			}
			a.logger.Debug("comparison computed", zap.Int("scenarios", len(scenarios)))

			return renderComparison(cmd.OutOrStdout(), out, result, scenarios)
		},
	}
	lf.register(cmd, false)
	cmd.Flags().Float64SliceVar(&extras, "extras", nil, "extra payments to compare, comma separated")
	return cmd
}

func (lf *loanFlags) register(cmd *cobra.Command, withExtra bool) {
	f := cmd.Flags()
	f.StringVar(&lf.file, "file", "", `loan JSON file ("-" for stdin)`)
	f.Float64Var(&lf.principal, "principal", 0, "amount borrowed")
	f.Float64Var(&lf.rate, "rate", 0, "annual interest rate in percent")
	f.Float64Var(&lf.term, "term", 0, "loan term")
	f.StringVar(&lf.unit, "unit", factory.TermPeriods, "term unit (periods|months|years)")
	f.StringVar(&lf.frequency, "frequency", "monthly", "payment frequency (monthly|biweekly|weekly|quarterly|semiannual|annually)")
	if withExtra {
		f.Float64Var(&lf.extra, "extra", 0, "extra payment added every period")
	}
}

// definition builds the loan from --file or from the individual flags.
// An --extra flag overrides the file's extra payment.
func (lf *loanFlags) definition(stdin io.Reader) (*factory.LoanDefinition, error) {
	var lj factory.LoanJSON

	if lf.file != "" {
		data, err := readLoanFile(lf.file, stdin)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &lj); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", lf.file, err)
		}
	} else {
		lj = factory.LoanJSON{
			Principal:         decimal.NewFromFloat(lf.principal),
			AnnualRatePercent: decimal.NewFromFloat(lf.rate),
			Term:              decimal.NewFromFloat(lf.term),
			TermUnit:          lf.unit,
			Frequency:         lf.frequency,
		}
	}
	if lf.extra != 0 {
		lj.ExtraPayment = decimal.NewFromFloat(lf.extra)
	}

	return factory.NewLoanFactory().FromJSON(lj)
}

func readLoanFile(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
