// Package compare implements the category, sheet and workbook comparators.
// Every function is pure over facet values: it returns diff records and
// never mutates or performs I/O.
package compare

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
)

// Cell compares every category of one cell pair and returns the records for
// each difference. Value, formula, comment, validation and protection are
// always checked; the visual formatting categories follow the tier.
func Cell(sheet string, a, b models.CellFacet, tier models.Tier) []models.DiffRecord {
	loc := cellLocation(a.Row, a.Col)
	rec := func(cat models.Category, label, va, vb string) models.DiffRecord {
		return models.DiffRecord{
			Scope:    models.ScopeCell,
			Sheet:    sheet,
			Row:      a.Row,
			Col:      a.Col,
			Location: loc,
			Category: cat,
			Label:    label,
			Change:   models.ChangeValue,
			ValueA:   va,
			ValueB:   vb,
		}
	}

	var recs []models.DiffRecord
	if !a.Value.Equal(b.Value) {
		recs = append(recs, rec(models.CategoryValue, "Value", a.Value.String(), b.Value.String()))
	}
	if a.Formula != b.Formula {
		recs = append(recs, rec(models.CategoryFormula, "Formula", a.Formula, b.Formula))
	}
	if a.Comment != b.Comment {
		recs = append(recs, rec(models.CategoryComment, "Comment", a.Comment, b.Comment))
	}
	if a.Validation != b.Validation {
		recs = append(recs, rec(models.CategoryValidation, "Validation", a.Validation, b.Validation))
	}
	if a.Locked != b.Locked {
		recs = append(recs, rec(models.CategoryProtection, "Protection.Locked", formatBool(a.Locked), formatBool(b.Locked)))
	}
	if a.FormulaHidden != b.FormulaHidden {
		recs = append(recs, rec(models.CategoryProtection, "Protection.FormulaHidden", formatBool(a.FormulaHidden), formatBool(b.FormulaHidden)))
	}
	for _, d := range formattingDiffs(a, b, tier) {
		recs = append(recs, rec(d.category, d.label, d.valueA, d.valueB))
	}
	return recs
}

// cellLocation renders a 1-based coordinate as an A1-style address.
func cellLocation(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row, col)
	}
	return name
}
