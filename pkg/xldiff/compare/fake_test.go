package compare

import (
	"fmt"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
	"github.com/hmakino/xldiff-go/pkg/xldiff/source"
)

// fakeSheet is an in-memory source.Sheet for comparator tests. Coordinates
// without explicit content yield the default facet, like the real facade.
type fakeSheet struct {
	name       string
	rows, cols int
	cells      map[[2]int]models.CellFacet
	rowFacets  map[int]models.RowFacet
	colFacets  map[int]models.ColumnFacet
	protection models.SheetProtection
	cellErrs   map[[2]int]error
}

func newFakeSheet(name string, rows, cols int) *fakeSheet {
	return &fakeSheet{
		name:      name,
		rows:      rows,
		cols:      cols,
		cells:     make(map[[2]int]models.CellFacet),
		rowFacets: make(map[int]models.RowFacet),
		colFacets: make(map[int]models.ColumnFacet),
		cellErrs:  make(map[[2]int]error),
	}
}

func (s *fakeSheet) set(row, col int, mutate func(*models.CellFacet)) *fakeSheet {
	f := models.DefaultCellFacet(row, col)
	mutate(&f)
	s.cells[[2]int{row, col}] = f
	return s
}

func (s *fakeSheet) setText(row, col int, text string) *fakeSheet {
	return s.set(row, col, func(f *models.CellFacet) { f.Value = models.TextValue(text) })
}

func (s *fakeSheet) Name() string      { return s.name }
func (s *fakeSheet) Bounds() (int, int) { return s.rows, s.cols }

func (s *fakeSheet) Cell(row, col int) (models.CellFacet, error) {
	if err := s.cellErrs[[2]int{row, col}]; err != nil {
		return models.CellFacet{}, err
	}
	if f, ok := s.cells[[2]int{row, col}]; ok {
		return f, nil
	}
	return models.DefaultCellFacet(row, col), nil
}

func (s *fakeSheet) Row(row int) (models.RowFacet, error) {
	return s.rowFacets[row], nil
}

func (s *fakeSheet) Column(col int) (models.ColumnFacet, error) {
	return s.colFacets[col], nil
}

func (s *fakeSheet) Protection() models.SheetProtection { return s.protection }

// fakeWorkbook is an in-memory source.Workbook for comparator tests.
type fakeWorkbook struct {
	name       string
	sheets     []*fakeSheet
	protection models.WorkbookProtection
	builtin    map[string]string
	custom     map[string]string
	defined    map[string]string
	conns      map[string]string
	theme      string
	macro      bool
	links      []string
	sheetErrs  map[string]error
}

func newFakeWorkbook(name string, sheets ...*fakeSheet) *fakeWorkbook {
	return &fakeWorkbook{
		name:      name,
		sheets:    sheets,
		builtin:   make(map[string]string),
		custom:    make(map[string]string),
		defined:   make(map[string]string),
		conns:     make(map[string]string),
		sheetErrs: make(map[string]error),
	}
}

func (w *fakeWorkbook) Name() string { return w.name }

func (w *fakeWorkbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.name
	}
	return names
}

func (w *fakeWorkbook) Sheet(name string) (source.Sheet, error) {
	if err := w.sheetErrs[name]; err != nil {
		return nil, err
	}
	for _, s := range w.sheets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sheet not found: %s", name)
}

func (w *fakeWorkbook) Protection() models.WorkbookProtection { return w.protection }
func (w *fakeWorkbook) BuiltinProperties() map[string]string  { return w.builtin }
func (w *fakeWorkbook) CustomProperties() map[string]string   { return w.custom }
func (w *fakeWorkbook) DefinedNames() map[string]string       { return w.defined }
func (w *fakeWorkbook) Theme() string                         { return w.theme }
func (w *fakeWorkbook) HasMacroProject() bool                 { return w.macro }
func (w *fakeWorkbook) ExternalLinks() []string               { return w.links }
func (w *fakeWorkbook) Connections() map[string]string        { return w.conns }
func (w *fakeWorkbook) Close() error                          { return nil }
