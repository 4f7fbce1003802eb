package xldiff

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hmakino/xldiff-go/pkg/xldiff/output"
)

func TestCompareDirsFileSets(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	buildWorkbook(t, dirA, "shared.xlsx", basicContent)
	buildWorkbook(t, dirA, "only_a.xlsx", basicContent)
	buildWorkbook(t, dirB, "shared.xlsx", basicContent)
	buildWorkbook(t, dirB, "only_b.xlsx", basicContent)

	rep, err := CompareDirs(context.Background(), dirA, dirB, DefaultOptions())
	if err != nil {
		t.Fatalf("CompareDirs failed: %v", err)
	}
	if len(rep.OnlyInA) != 1 || rep.OnlyInA[0] != "only_a.xlsx" {
		t.Errorf("OnlyInA = %v", rep.OnlyInA)
	}
	if len(rep.OnlyInB) != 1 || rep.OnlyInB[0] != "only_b.xlsx" {
		t.Errorf("OnlyInB = %v", rep.OnlyInB)
	}
	if len(rep.InBoth) != 1 || rep.InBoth[0] != "shared.xlsx" {
		t.Errorf("InBoth = %v", rep.InBoth)
	}
	if len(rep.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(rep.Pairs))
	}
	if rep.Pairs[0].OpenFailure != "" {
		t.Errorf("unexpected open failure: %s", rep.Pairs[0].OpenFailure)
	}
}

func TestCompareDirsSkipsLockFiles(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	buildWorkbook(t, dirA, "book.xlsx", basicContent)
	buildWorkbook(t, dirB, "book.xlsx", basicContent)
	if err := os.WriteFile(filepath.Join(dirA, "~$book.xlsx"), []byte("lock"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dirA, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, err := CompareDirs(context.Background(), dirA, dirB, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.OnlyInA) != 0 {
		t.Errorf("lock and non-workbook files must be ignored, got OnlyInA = %v", rep.OnlyInA)
	}
}

func TestCompareDirsCorruptFileDoesNotAbort(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	buildWorkbook(t, dirA, "bad.xlsx", basicContent)
	buildWorkbook(t, dirA, "good.xlsx", basicContent)
	buildWorkbook(t, dirB, "good.xlsx", func(f *excelize.File) {
		basicContent(f)
		f.SetCellValue("Sheet1", "B2", 43)
	})
	if err := os.WriteFile(filepath.Join(dirB, "bad.xlsx"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, err := CompareDirs(context.Background(), dirA, dirB, DefaultOptions())
	if err != nil {
		t.Fatalf("per-pair failures must not abort the batch: %v", err)
	}
	if len(rep.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(rep.Pairs))
	}
	var sawFailure, sawDiff bool
	for _, pair := range rep.Pairs {
		switch pair.Name {
		case "bad.xlsx":
			sawFailure = pair.OpenFailure != ""
		case "good.xlsx":
			sawDiff = pair.Report != nil && !pair.Report.Empty()
		}
	}
	if !sawFailure {
		t.Error("bad.xlsx pair must carry an open failure")
	}
	if !sawDiff {
		t.Error("good.xlsx pair must still be compared")
	}
}

func TestCompareDirsDeterministicUnderWorkers(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	for _, name := range []string{"w1.xlsx", "w2.xlsx", "w3.xlsx", "w4.xlsx"} {
		buildWorkbook(t, dirA, name, basicContent)
		buildWorkbook(t, dirB, name, func(f *excelize.File) {
			basicContent(f)
			f.SetCellValue("Sheet1", "A2", 101)
		})
	}

	opts := DefaultOptions()
	opts.Workers = 4
	render := func() []byte {
		rep, err := CompareDirs(context.Background(), dirA, dirB, opts)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := output.WriteBatchReport(&buf, rep); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	first := render()
	second := render()
	if !bytes.Equal(first, second) {
		t.Errorf("batch output is not deterministic:\n%s\n---\n%s", first, second)
	}
}

func TestCompareDirsMissingDir(t *testing.T) {
	dirA := t.TempDir()
	_, err := CompareDirs(context.Background(), dirA, filepath.Join(dirA, "nope"), DefaultOptions())
	var preErr *PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("got %v, want *PreconditionError", err)
	}
}
