package compare

import (
	"strconv"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
)

// property is one compared attribute of a formatting facet. min is the
// lowest tier at which the attribute is checked, so the common property set
// is a strict subset of the full one by construction.
type property[T any] struct {
	label string
	min   models.Tier
	get   func(T) string
}

// propDiff is an intermediate difference before it is bound to a location.
type propDiff struct {
	category models.Category
	label    string
	valueA   string
	valueB   string
}

var fontProperties = []property[models.FontFacet]{
	{"Font.Name", models.TierCommon, func(f models.FontFacet) string { return f.Name }},
	{"Font.Size", models.TierCommon, func(f models.FontFacet) string { return formatFloat(f.Size) }},
	{"Font.Bold", models.TierCommon, func(f models.FontFacet) string { return formatBool(f.Bold) }},
	{"Font.Italic", models.TierCommon, func(f models.FontFacet) string { return formatBool(f.Italic) }},
	{"Font.Underline", models.TierCommon, func(f models.FontFacet) string { return f.Underline }},
	{"Font.Color", models.TierCommon, func(f models.FontFacet) string { return f.Color }},
	{"Font.Strikethrough", models.TierFull, func(f models.FontFacet) string { return formatBool(f.Strike) }},
	{"Font.ThemeColor", models.TierFull, func(f models.FontFacet) string { return strconv.Itoa(f.ColorTheme) }},
	{"Font.ThemeTint", models.TierFull, func(f models.FontFacet) string { return formatFloat(f.ColorTint) }},
	{"Font.VerticalAlignment", models.TierFull, func(f models.FontFacet) string { return f.VertAlign }},
}

var fillProperties = []property[models.FillFacet]{
	{"Fill.Type", models.TierCommon, func(f models.FillFacet) string { return f.Type }},
	{"Fill.Pattern", models.TierCommon, func(f models.FillFacet) string { return strconv.Itoa(f.Pattern) }},
	{"Fill.ForegroundColor", models.TierCommon, func(f models.FillFacet) string { return f.ForeColor }},
	{"Fill.BackgroundColor", models.TierFull, func(f models.FillFacet) string { return f.BackColor }},
	{"Fill.Shading", models.TierFull, func(f models.FillFacet) string { return strconv.Itoa(f.Shading) }},
}

var alignmentProperties = []property[models.AlignmentFacet]{
	{"Alignment.Horizontal", models.TierCommon, func(a models.AlignmentFacet) string { return a.Horizontal }},
	{"Alignment.Vertical", models.TierCommon, func(a models.AlignmentFacet) string { return a.Vertical }},
	{"Alignment.WrapText", models.TierCommon, func(a models.AlignmentFacet) string { return formatBool(a.WrapText) }},
	{"Alignment.TextRotation", models.TierFull, func(a models.AlignmentFacet) string { return strconv.Itoa(a.TextRotation) }},
	{"Alignment.Indent", models.TierFull, func(a models.AlignmentFacet) string { return strconv.Itoa(a.Indent) }},
	{"Alignment.ShrinkToFit", models.TierFull, func(a models.AlignmentFacet) string { return formatBool(a.ShrinkToFit) }},
	{"Alignment.ReadingOrder", models.TierFull, func(a models.AlignmentFacet) string { return strconv.FormatUint(a.ReadingOrder, 10) }},
	{"Alignment.JustifyLastLine", models.TierFull, func(a models.AlignmentFacet) string { return formatBool(a.JustifyLastLine) }},
}

var borderProperties = []property[models.BorderEdge]{
	{"Style", models.TierCommon, func(e models.BorderEdge) string { return strconv.Itoa(e.Style) }},
	{"Color", models.TierCommon, func(e models.BorderEdge) string { return e.Color }},
}

// borderSides fixes the order and tier of compared border edges. The
// diagonal edges are the per-cell extended set; the four plain sides are
// always part of the common set.
var borderSides = []struct {
	key   string
	label string
	min   models.Tier
}{
	{"left", "Left", models.TierCommon},
	{"right", "Right", models.TierCommon},
	{"top", "Top", models.TierCommon},
	{"bottom", "Bottom", models.TierCommon},
	{"diagonalDown", "DiagonalDown", models.TierFull},
	{"diagonalUp", "DiagonalUp", models.TierFull},
}

// diffProperties compares a and b over every property active under tier and
// returns one propDiff per differing property, in table order.
func diffProperties[T any](cat models.Category, props []property[T], a, b T, tier models.Tier) []propDiff {
	var diffs []propDiff
	for _, p := range props {
		if !tier.Includes(p.min) {
			continue
		}
		va, vb := p.get(a), p.get(b)
		if va != vb {
			diffs = append(diffs, propDiff{category: cat, label: p.label, valueA: va, valueB: vb})
		}
	}
	return diffs
}

// formattingDiffs runs all visual-formatting categories for one cell pair.
// At TierOff it returns nothing.
func formattingDiffs(a, b models.CellFacet, tier models.Tier) []propDiff {
	if !tier.Includes(models.TierCommon) {
		return nil
	}
	var diffs []propDiff
	diffs = append(diffs, diffProperties(models.CategoryFont, fontProperties, a.Font, b.Font, tier)...)
	diffs = append(diffs, diffProperties(models.CategoryFill, fillProperties, a.Fill, b.Fill, tier)...)
	if a.NumberFormat != b.NumberFormat {
		diffs = append(diffs, propDiff{
			category: models.CategoryNumberFormat,
			label:    "NumberFormat",
			valueA:   a.NumberFormat,
			valueB:   b.NumberFormat,
		})
	}
	diffs = append(diffs, diffProperties(models.CategoryAlignment, alignmentProperties, a.Alignment, b.Alignment, tier)...)
	for _, side := range borderSides {
		if !tier.Includes(side.min) {
			continue
		}
		for _, d := range diffProperties(models.CategoryBorder, borderProperties, a.Border[side.key], b.Border[side.key], tier) {
			d.label = "Border." + side.label + "." + d.label
			diffs = append(diffs, d)
		}
	}
	return diffs
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
