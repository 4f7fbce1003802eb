package models

import (
	"strconv"

	"github.com/tiendc/go-deepcopy"
)

// ValueKind is the type family of a cell value. Values of different kinds
// never compare equal; there is no cross-kind coercion.
type ValueKind string

const (
	KindEmpty  ValueKind = "empty"
	KindNumber ValueKind = "number"
	KindText   ValueKind = "text"
	KindBool   ValueKind = "bool"
	KindDate   ValueKind = "date"
)

// CellValue is a typed cell value snapshot.
type CellValue struct {
	// Kind is the value's type family.
	Kind ValueKind
	// Raw is the value as the document formats it, used for display.
	Raw string
	// Canon is the normalized comparison form ("1.0" and "1" canonicalize
	// to the same number).
	Canon string
}

// NumberValue builds a numeric CellValue, canonicalizing through float
// parsing so differently formatted equal numbers compare equal. Values the
// number format renders non-numerically (dates, fractions) keep their
// rendered text as the canonical form.
func NumberValue(raw string) CellValue {
	canon := raw
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		canon = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return CellValue{Kind: KindNumber, Raw: raw, Canon: canon}
}

// TextValue builds a text CellValue.
func TextValue(raw string) CellValue {
	return CellValue{Kind: KindText, Raw: raw, Canon: raw}
}

// BoolValue builds a boolean CellValue.
func BoolValue(raw string) CellValue {
	return CellValue{Kind: KindBool, Raw: raw, Canon: raw}
}

// DateValue builds a date CellValue.
func DateValue(raw string) CellValue {
	return CellValue{Kind: KindDate, Raw: raw, Canon: raw}
}

// EmptyValue is the value of an absent or blank cell.
func EmptyValue() CellValue {
	return CellValue{Kind: KindEmpty}
}

// Equal reports type-aware value equality.
func (v CellValue) Equal(o CellValue) bool {
	return v.Kind == o.Kind && v.Canon == o.Canon
}

// String returns the display form of the value.
func (v CellValue) String() string {
	if v.Kind == KindEmpty {
		return "(empty)"
	}
	return v.Raw
}

// FontFacet is a read-only snapshot of a cell's font attributes.
type FontFacet struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline string
	Strike    bool
	Color     string
	// ColorTheme is the theme color index, -1 when the font has none.
	ColorTheme int
	ColorTint  float64
	VertAlign  string
}

// FillFacet is a read-only snapshot of a cell's fill attributes.
type FillFacet struct {
	Type      string
	Pattern   int
	ForeColor string
	BackColor string
	Shading   int
}

// AlignmentFacet is a read-only snapshot of a cell's alignment attributes.
type AlignmentFacet struct {
	Horizontal      string
	Vertical        string
	WrapText        bool
	TextRotation    int
	Indent          int
	ShrinkToFit     bool
	ReadingOrder    uint64
	JustifyLastLine bool
}

// BorderEdge is one side of a cell border. A side absent from the document
// is the zero edge.
type BorderEdge struct {
	Style int
	Color string
}

// CellFacet is a read-only snapshot of every compared aspect of one cell.
// Coordinates are 1-based and sheet-relative.
type CellFacet struct {
	Row int
	Col int

	Value      CellValue
	Formula    string
	Comment    string
	Validation string

	// Locked defaults to true: spreadsheet cells are locked unless their
	// style says otherwise (the flag only bites under sheet protection).
	Locked        bool
	FormulaHidden bool

	NumberFormat string
	Font         FontFacet
	Fill         FillFacet
	Alignment    AlignmentFacet
	// Border maps side name (left, right, top, bottom, diagonalDown,
	// diagonalUp) to its edge.
	Border map[string]BorderEdge
}

// defaultCellTemplate is what a coordinate outside a sheet's content looks
// like, so "cell missing on one side" compares exactly like "cell present
// but blank with default style".
var defaultCellTemplate = CellFacet{
	Value:  CellValue{Kind: KindEmpty},
	Locked: true,
	Font:   FontFacet{ColorTheme: -1},
	Border: map[string]BorderEdge{},
}

// DefaultCellFacet synthesizes the facet of an absent cell at (row, col).
// The template is deep-copied so nested state (the border map) is never
// shared between facets.
func DefaultCellFacet(row, col int) CellFacet {
	var f CellFacet
	if err := deepcopy.Copy(&f, &defaultCellTemplate); err != nil {
		// The template is a plain value struct; copying it cannot fail.
		f = defaultCellTemplate
		f.Border = map[string]BorderEdge{}
	}
	f.Row = row
	f.Col = col
	return f
}

// RowFacet is the structural geometry of one row.
type RowFacet struct {
	Hidden bool
	Height float64
}

// ColumnFacet is the structural geometry of one column.
type ColumnFacet struct {
	Hidden bool
	Width  float64
}

// SheetProtection holds a sheet's protection flags.
type SheetProtection struct {
	ContentsLocked  bool
	ObjectsLocked   bool
	ScenariosLocked bool
}

// WorkbookProtection holds a workbook's protection flags.
type WorkbookProtection struct {
	StructureLocked bool
	WindowsLocked   bool
	HasPassword     bool
}

// Coerce maps an absent (nil) source API value to the supplied default, so
// equality checks never need per-site nil handling.
func Coerce[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
