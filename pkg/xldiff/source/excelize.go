package source

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
)

// Open opens a workbook file read-only and returns its Workbook view.
// Parts excelize has no getters for (protection flags, custom properties,
// theme, macro project, external links, connections) are read from the
// OOXML package directly.
func Open(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	parts, err := readParts(path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &xlsxWorkbook{
		f:     f,
		name:  filepath.Base(path),
		parts: parts,
	}, nil
}

type xlsxWorkbook struct {
	f     *excelize.File
	name  string
	parts ooxmlParts
}

func (w *xlsxWorkbook) Name() string { return w.name }

func (w *xlsxWorkbook) SheetNames() []string { return w.f.GetSheetList() }

func (w *xlsxWorkbook) Protection() models.WorkbookProtection { return w.parts.workbookProtection }

func (w *xlsxWorkbook) BuiltinProperties() map[string]string {
	props := make(map[string]string)
	dp, err := w.f.GetDocProps()
	if err != nil || dp == nil {
		return props
	}
	for name, value := range map[string]string{
		"Title":          dp.Title,
		"Subject":        dp.Subject,
		"Creator":        dp.Creator,
		"Keywords":       dp.Keywords,
		"Description":    dp.Description,
		"LastModifiedBy": dp.LastModifiedBy,
		"Category":       dp.Category,
		"ContentStatus":  dp.ContentStatus,
		"Version":        dp.Version,
		"Revision":       dp.Revision,
		"Identifier":     dp.Identifier,
		"Language":       dp.Language,
		"Created":        dp.Created,
		"Modified":       dp.Modified,
	} {
		if value != "" {
			props[name] = value
		}
	}
	return props
}

func (w *xlsxWorkbook) CustomProperties() map[string]string { return w.parts.customProperties }

func (w *xlsxWorkbook) DefinedNames() map[string]string {
	names := make(map[string]string)
	for _, dn := range w.f.GetDefinedName() {
		// Built-in names (_xlnm.Print_Area etc.) describe view state,
		// not user-defined ranges.
		if strings.HasPrefix(dn.Name, "_xlnm.") {
			continue
		}
		key := dn.Name
		if dn.Scope != "" && dn.Scope != "Workbook" {
			key = dn.Scope + "!" + dn.Name
		}
		names[key] = dn.RefersTo
	}
	return names
}

func (w *xlsxWorkbook) Theme() string { return w.parts.theme }

func (w *xlsxWorkbook) HasMacroProject() bool { return w.parts.hasMacroProject }

func (w *xlsxWorkbook) ExternalLinks() []string { return w.parts.externalLinks }

func (w *xlsxWorkbook) Connections() map[string]string { return w.parts.connections }

func (w *xlsxWorkbook) Close() error { return w.f.Close() }

func (w *xlsxWorkbook) Sheet(name string) (Sheet, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet not found: %s", name)
	}
	s := &xlsxSheet{
		f:          w.f,
		name:       name,
		protection: w.parts.sheetProtection[name],
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

type xlsxSheet struct {
	f    *excelize.File
	name string

	rows, cols  int
	comments    map[cellCoord]string
	validations map[cellCoord]string
	protection  models.SheetProtection
}

type cellCoord struct{ row, col int }

// load computes the used-range bounds and prefetches the per-sheet facets
// excelize only exposes as whole-sheet lists.
func (s *xlsxSheet) load() error {
	rows, err := s.f.GetRows(s.name)
	if err != nil {
		return err
	}
	s.rows = len(rows)
	for _, row := range rows {
		if len(row) > s.cols {
			s.cols = len(row)
		}
	}
	// The dimension reference also covers trailing cells that carry only
	// formatting, which GetRows omits.
	if dim, err := s.f.GetSheetDimension(s.name); err == nil && dim != "" {
		ref := dim
		if i := strings.Index(dim, ":"); i >= 0 {
			ref = dim[i+1:]
		}
		if col, row, err := excelize.CellNameToCoordinates(ref); err == nil {
			if row > s.rows {
				s.rows = row
			}
			if col > s.cols {
				s.cols = col
			}
		}
	}

	s.comments = make(map[cellCoord]string)
	comments, err := s.f.GetComments(s.name)
	if err != nil {
		return err
	}
	for _, c := range comments {
		col, row, err := excelize.CellNameToCoordinates(c.Cell)
		if err != nil {
			continue
		}
		s.comments[cellCoord{row, col}] = commentText(c)
	}

	s.validations = make(map[cellCoord]string)
	dvs, err := s.f.GetDataValidations(s.name)
	if err != nil {
		return err
	}
	for _, dv := range dvs {
		if dv == nil {
			continue
		}
		expr := stripFormulaTag(dv.Formula1)
		for _, ref := range strings.Fields(dv.Sqref) {
			for _, coord := range expandRangeRef(ref) {
				s.validations[coord] = expr
			}
		}
	}
	return nil
}

func (s *xlsxSheet) Name() string { return s.name }

func (s *xlsxSheet) Bounds() (int, int) { return s.rows, s.cols }

func (s *xlsxSheet) Protection() models.SheetProtection { return s.protection }

func (s *xlsxSheet) Cell(row, col int) (models.CellFacet, error) {
	facet := models.DefaultCellFacet(row, col)

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return facet, err
	}
	raw, err := s.f.GetCellValue(s.name, cell)
	if err != nil {
		return facet, err
	}
	ct, err := s.f.GetCellType(s.name, cell)
	if err != nil {
		return facet, err
	}
	facet.Value = cellValue(raw, ct)

	if facet.Formula, err = s.f.GetCellFormula(s.name, cell); err != nil {
		return facet, err
	}
	facet.Comment = s.comments[cellCoord{row, col}]
	facet.Validation = s.validations[cellCoord{row, col}]

	// Style 0 is the document default; reading it through the same path as
	// explicit styles keeps "missing cell" and "default-styled cell"
	// normalization identical on both sides of a comparison.
	styleID, err := s.f.GetCellStyle(s.name, cell)
	if err != nil {
		return facet, err
	}
	style, err := s.f.GetStyle(styleID)
	if err != nil {
		return facet, err
	}
	applyStyle(&facet, style)
	return facet, nil
}

func (s *xlsxSheet) Row(row int) (models.RowFacet, error) {
	visible, err := s.f.GetRowVisible(s.name, row)
	if err != nil {
		return models.RowFacet{}, err
	}
	height, err := s.f.GetRowHeight(s.name, row)
	if err != nil {
		return models.RowFacet{}, err
	}
	return models.RowFacet{Hidden: !visible, Height: height}, nil
}

func (s *xlsxSheet) Column(col int) (models.ColumnFacet, error) {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return models.ColumnFacet{}, err
	}
	visible, err := s.f.GetColVisible(s.name, name)
	if err != nil {
		return models.ColumnFacet{}, err
	}
	width, err := s.f.GetColWidth(s.name, name)
	if err != nil {
		return models.ColumnFacet{}, err
	}
	return models.ColumnFacet{Hidden: !visible, Width: width}, nil
}

// cellValue maps a formatted value and its stored cell type to a typed
// CellValue. Untyped cells are resolved numerically first, then as text.
func cellValue(raw string, ct excelize.CellType) models.CellValue {
	if raw == "" {
		return models.EmptyValue()
	}
	switch ct {
	case excelize.CellTypeBool:
		return models.BoolValue(raw)
	case excelize.CellTypeDate:
		return models.DateValue(raw)
	case excelize.CellTypeNumber:
		return models.NumberValue(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return models.TextValue(raw)
	default:
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return models.NumberValue(raw)
		}
		return models.TextValue(raw)
	}
}

func applyStyle(facet *models.CellFacet, style *excelize.Style) {
	if style == nil {
		return
	}
	if style.Protection != nil {
		facet.Locked = style.Protection.Locked
		facet.FormulaHidden = style.Protection.Hidden
	}
	facet.NumberFormat = numberFormat(style)
	if style.Font != nil {
		facet.Font = models.FontFacet{
			Name:       style.Font.Family,
			Size:       style.Font.Size,
			Bold:       style.Font.Bold,
			Italic:     style.Font.Italic,
			Underline:  style.Font.Underline,
			Strike:     style.Font.Strike,
			Color:      strings.ToUpper(style.Font.Color),
			ColorTheme: models.Coerce(style.Font.ColorTheme, -1),
			ColorTint:  style.Font.ColorTint,
			VertAlign:  style.Font.VertAlign,
		}
	}
	facet.Fill = models.FillFacet{
		Type:    style.Fill.Type,
		Pattern: style.Fill.Pattern,
		Shading: style.Fill.Shading,
	}
	if len(style.Fill.Color) > 0 {
		facet.Fill.ForeColor = strings.ToUpper(style.Fill.Color[0])
	}
	if len(style.Fill.Color) > 1 {
		facet.Fill.BackColor = strings.ToUpper(style.Fill.Color[1])
	}
	if style.Alignment != nil {
		facet.Alignment = models.AlignmentFacet{
			Horizontal:      style.Alignment.Horizontal,
			Vertical:        style.Alignment.Vertical,
			WrapText:        style.Alignment.WrapText,
			TextRotation:    style.Alignment.TextRotation,
			Indent:          style.Alignment.Indent,
			ShrinkToFit:     style.Alignment.ShrinkToFit,
			ReadingOrder:    style.Alignment.ReadingOrder,
			JustifyLastLine: style.Alignment.JustifyLastLine,
		}
	}
	for _, b := range style.Border {
		facet.Border[b.Type] = models.BorderEdge{
			Style: b.Style,
			Color: strings.ToUpper(b.Color),
		}
	}
}

// builtinNumFmts maps the common built-in number format ids to their codes.
// Ids not listed render as "numFmt:<id>", which is stable and comparable,
// which is all the equality check needs.
var builtinNumFmts = map[int]string{
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

func numberFormat(style *excelize.Style) string {
	if custom := models.Coerce(style.CustomNumFmt, ""); custom != "" {
		return custom
	}
	if style.NumFmt == 0 {
		return "" // General
	}
	if code, ok := builtinNumFmts[style.NumFmt]; ok {
		return code
	}
	return "numFmt:" + strconv.Itoa(style.NumFmt)
}

// commentText flattens a comment to plain text, falling back to its rich
// text runs when the Text field is empty.
func commentText(c excelize.Comment) string {
	if c.Text != "" {
		return c.Text
	}
	var sb strings.Builder
	for _, run := range c.Paragraph {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// stripFormulaTag removes the XML element wrapper excelize keeps around
// stored validation formulas.
func stripFormulaTag(formula string) string {
	formula = strings.TrimPrefix(formula, "<formula1>")
	formula = strings.TrimSuffix(formula, "</formula1>")
	return formula
}

// expandRangeRef expands "A1" or "A1:B3" into cell coordinates. Malformed
// references expand to nothing.
func expandRangeRef(ref string) []cellCoord {
	ref = strings.ReplaceAll(ref, "$", "")
	first, last := ref, ref
	if i := strings.Index(ref, ":"); i >= 0 {
		first, last = ref[:i], ref[i+1:]
	}
	c1, r1, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return nil
	}
	c2, r2, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return nil
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	var coords []cellCoord
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			coords = append(coords, cellCoord{r, c})
		}
	}
	return coords
}
