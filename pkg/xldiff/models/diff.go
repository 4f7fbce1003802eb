// Package models defines data structures for workbook comparison.
package models

import "sort"

// Scope identifies the structural level a difference belongs to.
type Scope string

const (
	ScopeWorkbook Scope = "workbook"
	ScopeSheet    Scope = "sheet"
	ScopeRow      Scope = "row"
	ScopeColumn   Scope = "column"
	ScopeCell     Scope = "cell"
)

// scopeRank orders scopes for report sorting: workbook-level records first,
// then sheet, row, column and finally cell records.
var scopeRank = map[Scope]int{
	ScopeWorkbook: 0,
	ScopeSheet:    1,
	ScopeRow:      2,
	ScopeColumn:   3,
	ScopeCell:     4,
}

// Category is the kind of difference a record describes.
type Category string

const (
	CategoryValue            Category = "Value"
	CategoryFormula          Category = "Formula"
	CategoryComment          Category = "Comment"
	CategoryValidation       Category = "Validation"
	CategoryProtection       Category = "Protection"
	CategoryFont             Category = "Font"
	CategoryFill             Category = "Fill"
	CategoryNumberFormat     Category = "NumberFormat"
	CategoryAlignment        Category = "Alignment"
	CategoryBorder           Category = "Border"
	CategoryRowColumn        Category = "RowColumn"
	CategorySheetPresence    Category = "SheetPresence"
	CategoryWorkbookProperty Category = "WorkbookProperty"
	CategoryDefinedName      Category = "DefinedName"
	CategoryTheme            Category = "Theme"
	CategoryMacroProject     Category = "MacroProject"
	CategoryExternalLink     Category = "ExternalLink"
	CategoryConnection       Category = "Connection"
)

// categoryRank fixes the relative order of categories within one location.
var categoryRank = map[Category]int{
	CategoryValue:            0,
	CategoryFormula:          1,
	CategoryComment:          2,
	CategoryValidation:       3,
	CategoryProtection:       4,
	CategoryFont:             5,
	CategoryFill:             6,
	CategoryNumberFormat:     7,
	CategoryAlignment:        8,
	CategoryBorder:           9,
	CategoryRowColumn:        10,
	CategorySheetPresence:    11,
	CategoryWorkbookProperty: 12,
	CategoryDefinedName:      13,
	CategoryTheme:            14,
	CategoryMacroProject:     15,
	CategoryExternalLink:     16,
	CategoryConnection:       17,
}

// Change distinguishes what kind of mismatch a record reports.
type Change string

const (
	// ChangeValue means both sides have the facet but with different values.
	ChangeValue Change = "value"
	// ChangePresence means the facet exists on only one side.
	ChangePresence Change = "presence"
	// ChangeIncomplete means the comparison could not be completed for this
	// facet; the record surfaces that fact instead of silently dropping it.
	ChangeIncomplete Change = "incomplete"
)

// Tier controls how many visual formatting properties are checked.
type Tier string

const (
	// TierOff disables all visual formatting categories.
	TierOff Tier = "off"
	// TierCommon checks a minimal property subset per formatting category.
	TierCommon Tier = "common"
	// TierFull checks the extended property subset (theme colors, tint,
	// strikethrough, reading order, diagonal border edges, ...).
	TierFull Tier = "full"
)

var tierRank = map[Tier]int{
	TierOff:    0,
	TierCommon: 1,
	TierFull:   2,
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// Includes reports whether a property requiring at least tier min is checked
// under t. Properties tagged TierCommon are a strict subset of TierFull ones
// by construction.
func (t Tier) Includes(min Tier) bool {
	return tierRank[t] >= tierRank[min]
}

// AbsentValue is the display value a presence record carries on the side
// the facet is missing from.
const AbsentValue = "(absent)"

// DiffRecord is one atomic, labeled difference between corresponding facets
// of two documents.
type DiffRecord struct {
	Scope    Scope    `json:"scope"`
	Sheet    string   `json:"sheet,omitempty"`
	Row      int      `json:"row,omitempty"`
	Col      int      `json:"col,omitempty"`
	Location string   `json:"location,omitempty"`
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Change   Change   `json:"change"`
	ValueA   string   `json:"value_a"`
	ValueB   string   `json:"value_b"`
}

// less orders records by (sheet, scope, row, col, category, label) so two
// runs over identical inputs always serialize identically. Workbook-level
// records carry an empty sheet name and therefore sort first, and emitters
// can group a sorted report by sheet in a single pass.
func (d DiffRecord) less(o DiffRecord) bool {
	if d.Sheet != o.Sheet {
		return d.Sheet < o.Sheet
	}
	if scopeRank[d.Scope] != scopeRank[o.Scope] {
		return scopeRank[d.Scope] < scopeRank[o.Scope]
	}
	if d.Row != o.Row {
		return d.Row < o.Row
	}
	if d.Col != o.Col {
		return d.Col < o.Col
	}
	if categoryRank[d.Category] != categoryRank[o.Category] {
		return categoryRank[d.Category] < categoryRank[o.Category]
	}
	return d.Label < o.Label
}

// ComparisonReport is the ordered result of comparing two workbooks.
type ComparisonReport struct {
	BookA   string       `json:"book_a"`
	BookB   string       `json:"book_b"`
	Records []DiffRecord `json:"records"`
}

// Add appends records to the report.
func (r *ComparisonReport) Add(recs ...DiffRecord) {
	r.Records = append(r.Records, recs...)
}

// Sort normalizes record order regardless of the order comparators ran in.
func (r *ComparisonReport) Sort() {
	sort.SliceStable(r.Records, func(i, j int) bool {
		return r.Records[i].less(r.Records[j])
	})
}

// Empty reports whether no differences were found.
func (r *ComparisonReport) Empty() bool {
	return len(r.Records) == 0
}

// PairResult is the outcome of comparing one matched file pair in batch mode.
// Exactly one of Report and OpenFailure is set.
type PairResult struct {
	Name        string            `json:"name"`
	Report      *ComparisonReport `json:"report,omitempty"`
	OpenFailure string            `json:"open_failure,omitempty"`
}

// BatchReport aggregates a directory-vs-directory comparison.
type BatchReport struct {
	DirA    string       `json:"dir_a"`
	DirB    string       `json:"dir_b"`
	OnlyInA []string     `json:"only_in_a"`
	OnlyInB []string     `json:"only_in_b"`
	InBoth  []string     `json:"in_both"`
	Pairs   []PairResult `json:"pairs"`
}

// Sort normalizes file lists and pair order by name, so batch output is
// identical whether pairs ran sequentially or concurrently.
func (b *BatchReport) Sort() {
	sort.Strings(b.OnlyInA)
	sort.Strings(b.OnlyInB)
	sort.Strings(b.InBoth)
	sort.SliceStable(b.Pairs, func(i, j int) bool {
		return b.Pairs[i].Name < b.Pairs[j].Name
	})
}

// Empty reports whether the batch found no file-set differences, no cell
// differences and no open failures.
func (b *BatchReport) Empty() bool {
	if len(b.OnlyInA) > 0 || len(b.OnlyInB) > 0 {
		return false
	}
	for _, p := range b.Pairs {
		if p.OpenFailure != "" {
			return false
		}
		if p.Report != nil && !p.Report.Empty() {
			return false
		}
	}
	return true
}
