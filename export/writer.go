package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// Format identifies a download document format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat returns the Format for s. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Filename returns a download file name with the format's extension.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Write renders rs in the given format.
func Write(w io.Writer, f Format, rs RoundedSchedule) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, rs)
	case FormatCSV:
		return WriteCSV(w, rs)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// =============================================================================
// CSV
// =============================================================================

var csvHeader = []string{"period", "payment", "interest", "principal", "balance"}

// WriteCSV writes one row per period, preceded by a header row.
func WriteCSV(w io.Writer, rs RoundedSchedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range rs.Entries {
		row := []string{
			strconv.Itoa(e.Period),
			money(e.Payment),
			money(e.Interest),
			money(e.Principal),
			money(e.Balance),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// =============================================================================
// JSON
// =============================================================================

// Document is the JSON shape of an exported schedule.
type Document struct {
	PeriodicPayment string          `json:"periodic_payment"`
	TotalInterest   string          `json:"total_interest"`
	TotalPrincipal  string          `json:"total_principal"`
	TotalPaid       string          `json:"total_paid"`
	Periods         int             `json:"periods"`
	Entries         []DocumentEntry `json:"entries"`
}

// DocumentEntry is one period in a Document.
type DocumentEntry struct {
	Period    int    `json:"period"`
	Payment   string `json:"payment"`
	Interest  string `json:"interest"`
	Principal string `json:"principal"`
	Balance   string `json:"balance"`
}

// NewDocument converts rs into its JSON document form.
func NewDocument(rs RoundedSchedule) Document {
	doc := Document{
		PeriodicPayment: money(rs.PeriodicPayment),
		TotalInterest:   money(rs.TotalInterest),
		TotalPrincipal:  money(rs.TotalPrincipal),
		TotalPaid:       money(rs.TotalPaid),
		Periods:         len(rs.Entries),
		Entries:         make([]DocumentEntry, len(rs.Entries)),
	}
	for i, e := range rs.Entries {
		doc.Entries[i] = DocumentEntry{
			Period:    e.Period,
			Payment:   money(e.Payment),
			Interest:  money(e.Interest),
			Principal: money(e.Principal),
			Balance:   money(e.Balance),
		}
	}
	return doc
}

// WriteJSON writes rs as an indented Document.
func WriteJSON(w io.Writer, rs RoundedSchedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(rs))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
