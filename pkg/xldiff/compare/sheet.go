package compare

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
	"github.com/hmakino/xldiff-go/pkg/xldiff/source"
)

// Sheets compares two same-named sheets: every cell in the union bounding
// box, then row/column geometry over the union index ranges, then sheet
// protection. Traversal is row-major from the top-left, 1-based, so no
// trailing rows or columns unique to one side are skipped.
//
// A facade failure while fetching a cell, row or column is downgraded to a
// single "comparison incomplete" record and the traversal continues.
func Sheets(a, b source.Sheet, tier models.Tier) []models.DiffRecord {
	name := a.Name()
	var recs []models.DiffRecord

	rowsA, colsA := a.Bounds()
	rowsB, colsB := b.Bounds()
	rows := max(rowsA, rowsB)
	cols := max(colsA, colsB)

	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			fa, errA := a.Cell(row, col)
			fb, errB := b.Cell(row, col)
			if errA != nil || errB != nil {
				recs = append(recs, incompleteRecord(models.DiffRecord{
					Scope:    models.ScopeCell,
					Sheet:    name,
					Row:      row,
					Col:      col,
					Location: cellLocation(row, col),
					Category: models.CategoryValue,
					Label:    "Cell",
				}, errA, errB))
				continue
			}
			recs = append(recs, Cell(name, fa, fb, tier)...)
		}
	}

	recs = append(recs, rowGeometry(name, a, b, rows)...)
	recs = append(recs, columnGeometry(name, a, b, cols)...)
	recs = append(recs, sheetProtection(name, a.Protection(), b.Protection())...)
	return recs
}

func rowGeometry(name string, a, b source.Sheet, rows int) []models.DiffRecord {
	var recs []models.DiffRecord
	for row := 1; row <= rows; row++ {
		base := models.DiffRecord{
			Scope:    models.ScopeRow,
			Sheet:    name,
			Row:      row,
			Location: fmt.Sprintf("row %d", row),
			Category: models.CategoryRowColumn,
			Change:   models.ChangeValue,
		}
		ra, errA := a.Row(row)
		rb, errB := b.Row(row)
		if errA != nil || errB != nil {
			base.Label = "Row"
			recs = append(recs, incompleteRecord(base, errA, errB))
			continue
		}
		if ra.Hidden != rb.Hidden {
			rec := base
			rec.Label = "Row.Hidden"
			rec.ValueA, rec.ValueB = formatBool(ra.Hidden), formatBool(rb.Hidden)
			recs = append(recs, rec)
		}
		if ra.Height != rb.Height {
			rec := base
			rec.Label = "Row.Height"
			rec.ValueA, rec.ValueB = formatFloat(ra.Height), formatFloat(rb.Height)
			recs = append(recs, rec)
		}
	}
	return recs
}

func columnGeometry(name string, a, b source.Sheet, cols int) []models.DiffRecord {
	var recs []models.DiffRecord
	for col := 1; col <= cols; col++ {
		base := models.DiffRecord{
			Scope:    models.ScopeColumn,
			Sheet:    name,
			Col:      col,
			Location: "col " + columnName(col),
			Category: models.CategoryRowColumn,
			Change:   models.ChangeValue,
		}
		ca, errA := a.Column(col)
		cb, errB := b.Column(col)
		if errA != nil || errB != nil {
			base.Label = "Column"
			recs = append(recs, incompleteRecord(base, errA, errB))
			continue
		}
		if ca.Hidden != cb.Hidden {
			rec := base
			rec.Label = "Column.Hidden"
			rec.ValueA, rec.ValueB = formatBool(ca.Hidden), formatBool(cb.Hidden)
			recs = append(recs, rec)
		}
		if ca.Width != cb.Width {
			rec := base
			rec.Label = "Column.Width"
			rec.ValueA, rec.ValueB = formatFloat(ca.Width), formatFloat(cb.Width)
			recs = append(recs, rec)
		}
	}
	return recs
}

// sheetProtection emits one record per differing protection flag, never a
// single opaque "protection differs" record.
func sheetProtection(name string, a, b models.SheetProtection) []models.DiffRecord {
	flags := []struct {
		label string
		a, b  bool
	}{
		{"Protection.Contents", a.ContentsLocked, b.ContentsLocked},
		{"Protection.Objects", a.ObjectsLocked, b.ObjectsLocked},
		{"Protection.Scenarios", a.ScenariosLocked, b.ScenariosLocked},
	}
	var recs []models.DiffRecord
	for _, f := range flags {
		if f.a == f.b {
			continue
		}
		recs = append(recs, models.DiffRecord{
			Scope:    models.ScopeSheet,
			Sheet:    name,
			Category: models.CategoryProtection,
			Label:    f.label,
			Change:   models.ChangeValue,
			ValueA:   formatBool(f.a),
			ValueB:   formatBool(f.b),
		})
	}
	return recs
}

// incompleteRecord fills a record template with the facade errors so a
// failed read is always visible in the report, never treated as "equal".
func incompleteRecord(base models.DiffRecord, errA, errB error) models.DiffRecord {
	base.Change = models.ChangeIncomplete
	base.ValueA = errText(errA)
	base.ValueB = errText(errB)
	return base
}

func errText(err error) string {
	if err == nil {
		return "(read ok)"
	}
	return "(unreadable: " + err.Error() + ")"
}

func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Sprintf("C%d", col)
	}
	return name
}
