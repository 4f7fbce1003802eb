package xldiff

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
)

// buildWorkbook writes a test workbook to dir and returns its path.
func buildWorkbook(t *testing.T, dir, name string, mutate func(*excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if mutate != nil {
		mutate(f)
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save test workbook: %v", err)
	}
	return path
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func basicContent(f *excelize.File) {
	f.SetCellValue("Sheet1", "A1", "Header")
	f.SetCellValue("Sheet1", "A2", 100)
	f.SetCellValue("Sheet1", "B2", 42)
	f.SetCellValue("Sheet1", "B3", "text")
}

func TestCompareFilesReflexive(t *testing.T) {
	dir := t.TempDir()
	pathA := buildWorkbook(t, dir, "a.xlsx", basicContent)
	pathB := filepath.Join(dir, "b.xlsx")
	copyFile(t, pathA, pathB)

	for _, tier := range []models.Tier{models.TierOff, models.TierCommon, models.TierFull} {
		t.Run(string(tier), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Tier = tier
			rep, err := CompareFiles(pathA, pathB, opts)
			if err != nil {
				t.Fatalf("CompareFiles failed: %v", err)
			}
			if !rep.Empty() {
				t.Errorf("identical files produced records: %+v", rep.Records)
			}
		})
	}
}

func TestCompareFilesSingleCellSensitivity(t *testing.T) {
	dir := t.TempDir()
	pathA := buildWorkbook(t, dir, "a.xlsx", basicContent)
	pathB := buildWorkbook(t, dir, "b.xlsx", func(f *excelize.File) {
		basicContent(f)
		f.SetCellValue("Sheet1", "B2", 43)
	})

	rep, err := CompareFiles(pathA, pathB, DefaultOptions())
	if err != nil {
		t.Fatalf("CompareFiles failed: %v", err)
	}
	if len(rep.Records) != 1 {
		t.Fatalf("got %d records, want exactly 1: %+v", len(rep.Records), rep.Records)
	}
	rec := rep.Records[0]
	if rec.Category != models.CategoryValue {
		t.Errorf("got category %q, want Value", rec.Category)
	}
	if rec.Sheet != "Sheet1" || rec.Row != 2 || rec.Col != 2 || rec.Location != "B2" {
		t.Errorf("wrong coordinate: %+v", rec)
	}
	if rec.ValueA != "42" || rec.ValueB != "43" {
		t.Errorf("wrong values: %+v", rec)
	}
}

func TestCompareFilesFontTiers(t *testing.T) {
	dir := t.TempDir()
	style := func(bold bool) func(*excelize.File) {
		return func(f *excelize.File) {
			basicContent(f)
			id, err := f.NewStyle(&excelize.Style{
				Font: &excelize.Font{Family: "Arial", Size: 12, Bold: bold},
			})
			if err != nil {
				return
			}
			f.SetCellStyle("Sheet1", "A1", "A1", id)
		}
	}
	pathA := buildWorkbook(t, dir, "a.xlsx", style(false))
	pathB := buildWorkbook(t, dir, "b.xlsx", style(true))

	wantByTier := map[models.Tier]int{
		models.TierOff:    0,
		models.TierCommon: 1,
		models.TierFull:   1,
	}
	for tier, want := range wantByTier {
		opts := DefaultOptions()
		opts.Tier = tier
		rep, err := CompareFiles(pathA, pathB, opts)
		if err != nil {
			t.Fatalf("tier %s: %v", tier, err)
		}
		if len(rep.Records) != want {
			t.Errorf("tier %s: got %d records, want %d: %+v", tier, len(rep.Records), want, rep.Records)
		}
		if want == 1 && rep.Records[0].Label != "Font.Bold" {
			t.Errorf("tier %s: got %+v, want Font.Bold", tier, rep.Records[0])
		}
	}
}

func TestCompareFilesSheetPresence(t *testing.T) {
	dir := t.TempDir()
	pathA := buildWorkbook(t, dir, "a.xlsx", func(f *excelize.File) {
		basicContent(f)
		f.NewSheet("Extra")
	})
	pathB := buildWorkbook(t, dir, "b.xlsx", basicContent)

	rep, err := CompareFiles(pathA, pathB, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Records) != 1 {
		t.Fatalf("got %+v, want one presence record", rep.Records)
	}
	rec := rep.Records[0]
	if rec.Category != models.CategorySheetPresence || rec.Sheet != "Extra" || rec.Change != models.ChangePresence {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestCompareFilesDefinedNames(t *testing.T) {
	dir := t.TempDir()
	pathA := buildWorkbook(t, dir, "a.xlsx", func(f *excelize.File) {
		basicContent(f)
		f.SetDefinedName(&excelize.DefinedName{Name: "rate", RefersTo: "Sheet1!$A$1"})
	})
	pathB := buildWorkbook(t, dir, "b.xlsx", func(f *excelize.File) {
		basicContent(f)
		f.SetDefinedName(&excelize.DefinedName{Name: "rate", RefersTo: "Sheet1!$A$2"})
	})

	rep, err := CompareFiles(pathA, pathB, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Records) != 1 {
		t.Fatalf("got %+v, want one defined-name record", rep.Records)
	}
	rec := rep.Records[0]
	if rec.Category != models.CategoryDefinedName || rec.Change != models.ChangeValue {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.ValueA != "Sheet1!$A$1" || rec.ValueB != "Sheet1!$A$2" {
		t.Errorf("both range expressions must be shown: %+v", rec)
	}
}

func TestCompareFilesOpenError(t *testing.T) {
	dir := t.TempDir()
	good := buildWorkbook(t, dir, "good.xlsx", basicContent)
	bad := filepath.Join(dir, "bad.xlsx")
	if err := os.WriteFile(bad, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := CompareFiles(good, bad, DefaultOptions())
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("got %v, want *OpenError", err)
	}
	if openErr.Path != bad {
		t.Errorf("got path %q, want %q", openErr.Path, bad)
	}
}

func TestCompareFilesPrecondition(t *testing.T) {
	dir := t.TempDir()
	good := buildWorkbook(t, dir, "good.xlsx", basicContent)

	_, err := CompareFiles(good, filepath.Join(dir, "missing.xlsx"), DefaultOptions())
	var preErr *PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("got %v, want *PreconditionError", err)
	}
}

func TestParseTier(t *testing.T) {
	for _, valid := range []string{"off", "common", "full"} {
		if _, err := ParseTier(valid); err != nil {
			t.Errorf("ParseTier(%q): %v", valid, err)
		}
	}
	if _, err := ParseTier("verbose"); err == nil {
		t.Error("ParseTier must reject unknown tiers")
	}
}
