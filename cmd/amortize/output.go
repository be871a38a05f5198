package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/warp/loan-engine/amortization"
	"github.com/warp/loan-engine/export"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatCSV   outputFormat = "csv"
	formatJSON  outputFormat = "json"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case formatTable, formatCSV, formatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (table|csv|json)", s)
}

// =============================================================================
// STYLES
// =============================================================================

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorGood    = lipgloss.Color("#10B981")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	savedStyle = lipgloss.NewStyle().
			Foreground(colorGood).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
}

func summaryLine(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
}

func money(v float64) string {
	return export.Cents(v).StringFixed(2)
}

// =============================================================================
// SCHEDULE
// =============================================================================

func renderSchedule(w io.Writer, f outputFormat, result *amortization.Result) error {
	rs := export.RoundSchedule(result.Schedule)

	switch f {
	case formatCSV:
		return export.WriteCSV(w, rs)
	case formatJSON:
		return export.WriteJSON(w, rs)
	}

	fmt.Fprintln(w, titleStyle.Render("Amortization schedule"))
	summaryLine(w, "Periodic payment", money(result.Payment()))
	summaryLine(w, "Periods", strconv.Itoa(result.Schedule.Periods()))
	summaryLine(w, "Total interest", rs.TotalInterest.StringFixed(2))
	summaryLine(w, "Total paid", rs.TotalPaid.StringFixed(2))
	fmt.Fprintln(w, scheduleTable(rs).Render())
	return nil
}

func scheduleTable(rs export.RoundedSchedule) *table.Table {
	t := newTable("Period", "Payment", "Interest", "Principal", "Balance")
	for _, e := range rs.Entries {
		t.Row(
			strconv.Itoa(e.Period),
			e.Payment.StringFixed(2),
			e.Interest.StringFixed(2),
			e.Principal.StringFixed(2),
			e.Balance.StringFixed(2),
		)
	}
	return t
}

// =============================================================================
// SCENARIO
// =============================================================================

type scenarioDocument struct {
	ExtraPayment             string          `json:"extra_payment"`
	OriginalPayment          string          `json:"original_payment"`
	AcceleratedPayment       string          `json:"accelerated_payment"`
	OriginalPeriods          int             `json:"original_periods"`
	PeriodsToPayoff          int             `json:"periods_to_payoff"`
	MonthsSaved              int             `json:"months_saved"`
	OriginalTotalInterest    string          `json:"original_total_interest"`
	AcceleratedTotalInterest string          `json:"accelerated_total_interest"`
	InterestSaved            string          `json:"interest_saved"`
	Schedule                 export.Document `json:"schedule"`
}

func renderScenario(w io.Writer, f outputFormat, result *amortization.Result, sr *amortization.ScenarioResult, showSchedule bool) error {
	accelerated := export.RoundSchedule(sr.Schedule)

	switch f {
	case formatCSV:
		return export.WriteCSV(w, accelerated)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(scenarioDocument{
			ExtraPayment:             money(sr.ExtraPayment),
			OriginalPayment:          money(result.Payment()),
			AcceleratedPayment:       money(sr.AcceleratedPayment),
			OriginalPeriods:          sr.OriginalPeriods,
			PeriodsToPayoff:          sr.PeriodsToPayoff,
			MonthsSaved:              sr.MonthsSaved,
			OriginalTotalInterest:    money(sr.OriginalTotalInterest),
			AcceleratedTotalInterest: money(sr.AcceleratedTotalInterest),
			InterestSaved:            money(sr.InterestSaved),
			Schedule:                 export.NewDocument(accelerated),
		})
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Extra payment of %s per period", money(sr.ExtraPayment))))

	t := newTable("", "Baseline", "With extra")
	t.Row("Payment", money(result.Payment()), money(sr.AcceleratedPayment))
	t.Row("Periods", strconv.Itoa(sr.OriginalPeriods), strconv.Itoa(sr.PeriodsToPayoff))
	t.Row("Total interest", money(sr.OriginalTotalInterest), money(sr.AcceleratedTotalInterest))
	fmt.Fprintln(w, t.Render())

	summaryLine(w, "Periods saved", savedStyle.Render(strconv.Itoa(sr.MonthsSaved)))
	summaryLine(w, "Interest saved", savedStyle.Render(money(sr.InterestSaved)))

	if showSchedule {
		fmt.Fprintln(w, scheduleTable(accelerated).Render())
	}
	return nil
}

// =============================================================================
// COMPARISON
// =============================================================================

var comparisonHeader = []string{"extra_payment", "payment", "periods", "periods_saved", "total_interest", "interest_saved"}

type comparisonRow struct {
	ExtraPayment  string `json:"extra_payment"`
	Payment       string `json:"payment"`
	Periods       int    `json:"periods"`
	PeriodsSaved  int    `json:"periods_saved"`
	TotalInterest string `json:"total_interest"`
	InterestSaved string `json:"interest_saved"`
}

func comparisonRows(scenarios []amortization.ScenarioResult) []comparisonRow {
	rows := make([]comparisonRow, len(scenarios))
	for i, sr := range scenarios {
		rows[i] = comparisonRow{
			ExtraPayment:  money(sr.ExtraPayment),
			Payment:       money(sr.AcceleratedPayment),
			Periods:       sr.PeriodsToPayoff,
			PeriodsSaved:  sr.MonthsSaved,
			TotalInterest: money(sr.AcceleratedTotalInterest),
			InterestSaved: money(sr.InterestSaved),
		}
	}
	return rows
}

func renderComparison(w io.Writer, f outputFormat, result *amortization.Result, scenarios []amortization.ScenarioResult) error {
	rows := comparisonRows(scenarios)

	switch f {
	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(comparisonHeader); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write([]string{
				r.ExtraPayment, r.Payment, strconv.Itoa(r.Periods),
				strconv.Itoa(r.PeriodsSaved), r.TotalInterest, r.InterestSaved,
			}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintln(w, titleStyle.Render("Extra payment comparison"))
	summaryLine(w, "Baseline payment", money(result.Payment()))
	summaryLine(w, "Baseline periods", strconv.Itoa(result.Schedule.Periods()))
	summaryLine(w, "Baseline interest", money(result.Schedule.TotalInterest))

	t := newTable("Extra", "Payment", "Periods", "Saved", "Interest", "Interest saved")
	for _, r := range rows {
		t.Row(r.ExtraPayment, r.Payment, strconv.Itoa(r.Periods), strconv.Itoa(r.PeriodsSaved), r.TotalInterest, r.InterestSaved)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}
