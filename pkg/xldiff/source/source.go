// Package source provides read-only access to workbook documents for the
// comparison engine. The comparators consume the Workbook and Sheet
// capability interfaces and never touch file bytes themselves.
package source

import "github.com/hmakino/xldiff-go/pkg/xldiff/models"

// Workbook is a read-only view over one spreadsheet document, valid until
// Close is called. Implementations never mutate the source document.
type Workbook interface {
	// Name is the workbook file name, without directory.
	Name() string
	// SheetNames returns sheet names in file order.
	SheetNames() []string
	// Sheet returns the named sheet.
	Sheet(name string) (Sheet, error)
	// Protection returns workbook-level protection flags.
	Protection() models.WorkbookProtection
	// BuiltinProperties returns the built-in document property bag.
	BuiltinProperties() map[string]string
	// CustomProperties returns the custom document property bag.
	CustomProperties() map[string]string
	// DefinedNames maps defined name (scope-qualified when sheet-scoped)
	// to its range expression.
	DefinedNames() map[string]string
	// Theme is the workbook theme identifier.
	Theme() string
	// HasMacroProject reports whether a macro project is embedded.
	HasMacroProject() bool
	// ExternalLinks returns external link targets.
	ExternalLinks() []string
	// Connections maps data connection name to its description.
	Connections() map[string]string

	Close() error
}

// Sheet is a read-only view over one worksheet.
type Sheet interface {
	Name() string
	// Bounds returns the used-range extent (max row, max col), 1-based.
	Bounds() (rows, cols int)
	// Cell returns the facet at (row, col). Coordinates beyond the used
	// range are valid and yield the default facet, so callers can iterate
	// the union bounding box of two differently sized sheets.
	Cell(row, col int) (models.CellFacet, error)
	// Row returns row geometry, 1-based.
	Row(row int) (models.RowFacet, error)
	// Column returns column geometry, 1-based.
	Column(col int) (models.ColumnFacet, error)
	// Protection returns the sheet's protection flags.
	Protection() models.SheetProtection
}
