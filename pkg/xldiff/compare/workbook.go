package compare

import (
	"sort"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
	"github.com/hmakino/xldiff-go/pkg/xldiff/source"
)

// Workbooks compares two workbooks end to end and returns the normalized
// report: sheet presence, every shared sheet, both property bags, defined
// names, theme, macro project, external links, connections and workbook
// protection. The record order does not depend on invocation order; the
// report is sorted before it is returned.
func Workbooks(a, b source.Workbook, tier models.Tier) *models.ComparisonReport {
	rep := &models.ComparisonReport{BookA: a.Name(), BookB: b.Name()}

	namesA := a.SheetNames()
	namesB := b.SheetNames()
	setB := make(map[string]bool, len(namesB))
	for _, n := range namesB {
		setB[n] = true
	}
	setA := make(map[string]bool, len(namesA))
	for _, n := range namesA {
		setA[n] = true
	}

	for _, n := range namesA {
		if !setB[n] {
			rep.Add(sheetPresenceRecord(n, "present", models.AbsentValue))
		}
	}
	for _, n := range namesB {
		if !setA[n] {
			rep.Add(sheetPresenceRecord(n, models.AbsentValue, "present"))
		}
	}

	for _, n := range namesA {
		if !setB[n] {
			continue
		}
		shA, errA := a.Sheet(n)
		shB, errB := b.Sheet(n)
		if errA != nil || errB != nil {
			rep.Add(incompleteRecord(models.DiffRecord{
				Scope:    models.ScopeSheet,
				Sheet:    n,
				Category: models.CategorySheetPresence,
				Label:    "Sheet",
			}, errA, errB))
			continue
		}
		rep.Add(Sheets(shA, shB, tier)...)
	}

	rep.Add(diffBag(models.CategoryWorkbookProperty, "Property.Builtin.", a.BuiltinProperties(), b.BuiltinProperties())...)
	rep.Add(diffBag(models.CategoryWorkbookProperty, "Property.Custom.", a.CustomProperties(), b.CustomProperties())...)
	rep.Add(diffBag(models.CategoryDefinedName, "DefinedName.", a.DefinedNames(), b.DefinedNames())...)
	rep.Add(diffBag(models.CategoryConnection, "Connection.", a.Connections(), b.Connections())...)

	if a.Theme() != b.Theme() {
		rep.Add(workbookRecord(models.CategoryTheme, "Theme", models.ChangeValue, a.Theme(), b.Theme()))
	}
	if a.HasMacroProject() != b.HasMacroProject() {
		rep.Add(workbookRecord(models.CategoryMacroProject, "MacroProject", models.ChangeValue,
			formatBool(a.HasMacroProject()), formatBool(b.HasMacroProject())))
	}
	rep.Add(diffLinkSets(a.ExternalLinks(), b.ExternalLinks())...)
	rep.Add(workbookProtection(a.Protection(), b.Protection())...)

	rep.Sort()
	return rep
}

func sheetPresenceRecord(name, va, vb string) models.DiffRecord {
	return models.DiffRecord{
		Scope:    models.ScopeSheet,
		Sheet:    name,
		Category: models.CategorySheetPresence,
		Label:    "Sheet",
		Change:   models.ChangePresence,
		ValueA:   va,
		ValueB:   vb,
	}
}

func workbookRecord(cat models.Category, label string, change models.Change, va, vb string) models.DiffRecord {
	return models.DiffRecord{
		Scope:    models.ScopeWorkbook,
		Category: cat,
		Label:    label,
		Change:   change,
		ValueA:   va,
		ValueB:   vb,
	}
}

// diffBag compares two name-keyed bags: a name on one side only yields a
// presence record, a name on both sides with different values a value
// record, equal values nothing.
func diffBag(cat models.Category, prefix string, a, b map[string]string) []models.DiffRecord {
	var recs []models.DiffRecord
	for _, name := range unionKeys(a, b) {
		va, inA := a[name]
		vb, inB := b[name]
		switch {
		case inA && !inB:
			recs = append(recs, workbookRecord(cat, prefix+name, models.ChangePresence, va, models.AbsentValue))
		case !inA && inB:
			recs = append(recs, workbookRecord(cat, prefix+name, models.ChangePresence, models.AbsentValue, vb))
		case va != vb:
			recs = append(recs, workbookRecord(cat, prefix+name, models.ChangeValue, va, vb))
		}
	}
	return recs
}

// diffLinkSets compares external link reference lists as sets: each target
// present on only one side is its own presence record.
func diffLinkSets(a, b []string) []models.DiffRecord {
	inA := make(map[string]bool, len(a))
	for _, l := range a {
		inA[l] = true
	}
	inB := make(map[string]bool, len(b))
	for _, l := range b {
		inB[l] = true
	}
	var recs []models.DiffRecord
	for _, l := range a {
		if !inB[l] {
			recs = append(recs, workbookRecord(models.CategoryExternalLink, "ExternalLink."+l, models.ChangePresence, "present", models.AbsentValue))
		}
	}
	for _, l := range b {
		if !inA[l] {
			recs = append(recs, workbookRecord(models.CategoryExternalLink, "ExternalLink."+l, models.ChangePresence, models.AbsentValue, "present"))
		}
	}
	return recs
}

func workbookProtection(a, b models.WorkbookProtection) []models.DiffRecord {
	flags := []struct {
		label string
		a, b  bool
	}{
		{"Protection.Structure", a.StructureLocked, b.StructureLocked},
		{"Protection.Windows", a.WindowsLocked, b.WindowsLocked},
		{"Protection.Password", a.HasPassword, b.HasPassword},
	}
	var recs []models.DiffRecord
	for _, f := range flags {
		if f.a != f.b {
			recs = append(recs, workbookRecord(models.CategoryProtection, f.label, models.ChangeValue, formatBool(f.a), formatBool(f.b)))
		}
	}
	return recs
}

func unionKeys(a, b map[string]string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
