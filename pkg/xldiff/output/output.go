// Package output renders comparison reports to text or JSON. It only
// consumes report values; serialization stays a swappable concern separate
// from the comparison engine.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
)

// ToJSON serializes a ComparisonReport or BatchReport.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// WriteReport renders a single-pair report as text, grouped per sheet under
// a "=== Sheet: <name> ===" heading. The report must already be sorted,
// which Workbooks guarantees.
func WriteReport(w io.Writer, rep *models.ComparisonReport) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A: %s\n", rep.BookA)
	fmt.Fprintf(&sb, "B: %s\n", rep.BookB)

	if rep.Empty() {
		sb.WriteString("No differences found.\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	writeRecords(&sb, rep.Records)
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteBatchReport renders a batch report: file set differences first, then
// one sub-report per matched pair.
func WriteBatchReport(w io.Writer, rep *models.BatchReport) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A: %s\n", rep.DirA)
	fmt.Fprintf(&sb, "B: %s\n", rep.DirB)

	writeFileList(&sb, "Files only in A", rep.OnlyInA)
	writeFileList(&sb, "Files only in B", rep.OnlyInB)
	writeFileList(&sb, "Files in both", rep.InBoth)

	for _, pair := range rep.Pairs {
		fmt.Fprintf(&sb, "\n--- Pair: %s ---\n", pair.Name)
		if pair.OpenFailure != "" {
			fmt.Fprintf(&sb, "failed to open: %s\n", pair.OpenFailure)
			continue
		}
		if pair.Report.Empty() {
			sb.WriteString("No differences found.\n")
			continue
		}
		writeRecords(&sb, pair.Report.Records)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeFileList(sb *strings.Builder, title string, names []string) {
	fmt.Fprintf(sb, "\n%s (%d):\n", title, len(names))
	for _, name := range names {
		fmt.Fprintf(sb, "  %s\n", name)
	}
}

func writeRecords(sb *strings.Builder, records []models.DiffRecord) {
	section := ""
	for _, rec := range records {
		header := "=== Workbook ==="
		if rec.Sheet != "" {
			header = fmt.Sprintf("=== Sheet: %s ===", rec.Sheet)
		}
		if header != section {
			fmt.Fprintf(sb, "\n%s\n", header)
			section = header
		}
		sb.WriteString(recordLine(rec))
		fmt.Fprintf(sb, "  A: %s\n", rec.ValueA)
		fmt.Fprintf(sb, "  B: %s\n", rec.ValueB)
	}
}

func recordLine(rec models.DiffRecord) string {
	prefix := ""
	if rec.Location != "" {
		prefix = rec.Location + ": "
	}
	switch rec.Change {
	case models.ChangeIncomplete:
		return fmt.Sprintf("%scomparison incomplete for %s\n", prefix, rec.Label)
	case models.ChangePresence:
		side := "A"
		if rec.ValueA == models.AbsentValue {
			side = "B"
		}
		return fmt.Sprintf("%s%s only in %s\n", prefix, rec.Label, side)
	default:
		return fmt.Sprintf("%s%s differs\n", prefix, rec.Label)
	}
}
