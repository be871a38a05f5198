package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestApp_VerboseLoggerIsPerInstance(t *testing.T) {
	// GIVEN: Two independent apps
	// WHEN: Only the first runs with --verbose
	// THEN: Only the first gets a debug logger

	verbose, quiet := newApp(), newApp()

	cmd := verbose.command()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"schedule", "--principal", "1200", "--rate", "0", "--term", "12", "-o", "csv", "--verbose"})
	require.NoError(t, cmd.Execute())

	assert.True(t, verbose.logger.Core().Enabled(zap.DebugLevel))
	assert.False(t, quiet.logger.Core().Enabled(zap.DebugLevel))
}

func TestSchedule_CSV(t *testing.T) {
	out, err := execute(t, "", "schedule", "--principal", "1200", "--rate", "0", "--term", "12", "-o", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 13)
	assert.Equal(t, []string{"12", "100.00", "0.00", "100.00", "0.00"}, rows[12])
}

func TestSchedule_Table(t *testing.T) {
	out, err := execute(t, "", "schedule", "--principal", "1000000", "--rate", "12", "--term", "1", "--unit", "years")
	require.NoError(t, err)

	assert.Contains(t, out, "Amortization schedule")
	assert.Contains(t, out, "88848.79")
	assert.Contains(t, out, "Balance")
}

func TestSchedule_FromStdinFile(t *testing.T) {
	loan := `{"principal": 1200, "annual_rate_percent": 0, "term": 1, "term_unit": "years"}`
	out, err := execute(t, loan, "schedule", "--file", "-", "-o", "json")
	require.NoError(t, err)

	var doc struct {
		Periods   int    `json:"periods"`
		TotalPaid string `json:"total_paid"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 12, doc.Periods)
	assert.Equal(t, "1200.00", doc.TotalPaid)
}

func TestScenario_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"principal": 1200, "annual_rate_percent": 0, "term": 12}`), 0o600))

	out, err := execute(t, "", "scenario", "--file", path, "--extra", "100", "-o", "json")
	require.NoError(t, err)

	var doc scenarioDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 12, doc.OriginalPeriods)
	assert.Equal(t, 6, doc.PeriodsToPayoff)
	assert.Equal(t, 6, doc.MonthsSaved)
	assert.Equal(t, "200.00", doc.AcceleratedPayment)
	assert.Len(t, doc.Schedule.Entries, 6)
}

func TestCompare_CSVKeepsOrder(t *testing.T) {
	out, err := execute(t, "",
		"compare", "--principal", "300000", "--rate", "6", "--term", "30", "--unit", "years",
		"--extras", "500,0,100", "-o", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, comparisonHeader, rows[0])
	assert.Equal(t, "500.00", rows[1][0])
	assert.Equal(t, "0.00", rows[2][0])
	assert.Equal(t, "0", rows[2][3], "zero extra saves nothing")
	assert.Equal(t, "100.00", rows[3][0])
}

func TestCommands_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"schedule", "--principal", "1000", "--rate", "5", "--term", "12", "-o", "xml"}},
		{"invalid principal", []string{"schedule", "--principal", "-1", "--rate", "5", "--term", "12"}},
		{"fractional periods", []string{"schedule", "--principal", "1000", "--rate", "5", "--term", "1.5"}},
		{"missing extras", []string{"compare", "--principal", "1000", "--rate", "5", "--term", "12"}},
		{"missing file", []string{"schedule", "--file", "/nonexistent/loan.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}
