package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/loan-engine/amortization"
	"github.com/warp/loan-engine/export"
)

func referenceSchedule(t *testing.T) *amortization.Schedule {
	t.Helper()
	result, err := amortization.NewCalculator().Compute(amortization.LoanParameters{
		Principal:         1_000_000,
		AnnualRatePercent: 12,
		TermPeriods:       12,
	})
	require.NoError(t, err)
	return result.Schedule
}

// =============================================================================
// ROUNDING TESTS
// =============================================================================

func TestRoundSchedule_ReconcilesToPrincipal(t *testing.T) {
	rs := export.RoundSchedule(referenceSchedule(t))

	require.Len(t, rs.Entries, 12)
	assert.Equal(t, "88848.79", rs.PeriodicPayment.StringFixed(2))
	assert.True(t, rs.TotalPrincipal.Equal(decimal.NewFromInt(1_000_000)), "got %s", rs.TotalPrincipal)
	assert.True(t, rs.Entries[11].Balance.IsZero())
	assert.True(t, rs.TotalPaid.Equal(rs.TotalInterest.Add(rs.TotalPrincipal)))

	for _, e := range rs.Entries {
		assert.True(t, e.Payment.Equal(e.Interest.Add(e.Principal)), "period %d", e.Period)
		assert.False(t, e.Balance.IsNegative())
	}
}

func TestRoundSchedule_ThirdsAbsorbedInLastPeriod(t *testing.T) {
	// GIVEN: 1000 over 3 periods at zero interest (333.333... each)
	// THEN: 333.33, 333.33, 333.34

	result, err := amortization.NewCalculator().Compute(amortization.LoanParameters{
		Principal:   1000,
		TermPeriods: 3,
	})
	require.NoError(t, err)

	rs := export.RoundSchedule(result.Schedule)

	require.Len(t, rs.Entries, 3)
	assert.Equal(t, "333.33", rs.Entries[0].Principal.StringFixed(2))
	assert.Equal(t, "333.33", rs.Entries[1].Principal.StringFixed(2))
	assert.Equal(t, "333.34", rs.Entries[2].Principal.StringFixed(2))
	assert.Equal(t, "0.00", rs.Entries[2].Balance.StringFixed(2))
	assert.Equal(t, "1000.00", rs.TotalPaid.StringFixed(2))
}

func TestCents(t *testing.T) {
	assert.Equal(t, "0.13", export.Cents(0.125).StringFixed(2))
	assert.Equal(t, "88848.79", export.Cents(88848.78868).StringFixed(2))
}

// =============================================================================
// WRITER TESTS
// =============================================================================

func TestWriteCSV(t *testing.T) {
	rs := export.RoundSchedule(referenceSchedule(t))

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatCSV, rs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 13)

	assert.Equal(t, []string{"period", "payment", "interest", "principal", "balance"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "10000.00", rows[1][2])
	assert.Equal(t, "12", rows[12][0])
	assert.Equal(t, "0.00", rows[12][4])
}

func TestWriteJSON(t *testing.T) {
	rs := export.RoundSchedule(referenceSchedule(t))

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatJSON, rs))

	var doc export.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 12, doc.Periods)
	assert.Equal(t, "88848.79", doc.PeriodicPayment)
	assert.Equal(t, "1000000.00", doc.TotalPrincipal)
	assert.Len(t, doc.Entries, 12)
	assert.Equal(t, "0.00", doc.Entries[11].Balance)
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)
	assert.Equal(t, "text/csv", f.ContentType())
	assert.Equal(t, "schedule.csv", f.Filename("schedule"))

	f, err = export.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType())

	_, err = export.ParseFormat("pdf")
	assert.Error(t, err)
}
