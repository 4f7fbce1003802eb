package xldiff

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
)

// workbookExtensions is the extension filter for directory batch mode. Both
// members of the OOXML workbook family are matched; macro-project presence
// is itself a compared facet.
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// CompareDirs matches workbook files by name across two directories and
// compares each matched pair. Pairs run on a bounded worker pool
// (Options.Workers); a pair whose file fails to open is recorded and the
// remaining pairs still run. The assembled report is re-sorted so output is
// identical whether pairs ran sequentially or concurrently.
func CompareDirs(ctx context.Context, dirA, dirB string, opts Options) (*models.BatchReport, error) {
	filesA, err := listWorkbooks(dirA)
	if err != nil {
		return nil, err
	}
	filesB, err := listWorkbooks(dirB)
	if err != nil {
		return nil, err
	}

	rep := &models.BatchReport{DirA: dirA, DirB: dirB}
	for name := range filesA {
		if _, ok := filesB[name]; ok {
			rep.InBoth = append(rep.InBoth, name)
		} else {
			rep.OnlyInA = append(rep.OnlyInA, name)
		}
	}
	for name := range filesB {
		if _, ok := filesA[name]; !ok {
			rep.OnlyInB = append(rep.OnlyInB, name)
		}
	}
	rep.Sort()

	rep.Pairs = make([]models.PairResult, len(rep.InBoth))
	grp, ctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	grp.SetLimit(workers)

	for i, name := range rep.InBoth {
		grp.Go(func() error {
			pair := models.PairResult{Name: name}
			if err := ctx.Err(); err != nil {
				pair.OpenFailure = err.Error()
				rep.Pairs[i] = pair
				return nil
			}
			report, err := CompareFiles(filesA[name], filesB[name], opts)
			if err != nil {
				// Recoverable per pair: recorded, never batch-aborting.
				pair.OpenFailure = err.Error()
			} else {
				pair.Report = report
			}
			rep.Pairs[i] = pair
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	rep.Sort()
	return rep, nil
}

// listWorkbooks maps workbook file name to path for one directory. A missing
// or unreadable directory is a fatal precondition failure.
func listWorkbooks(dir string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &PreconditionError{Path: dir, Reason: "directory not found"}
	}
	if !info.IsDir() {
		return nil, &PreconditionError{Path: dir, Reason: "not a directory"}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &PreconditionError{Path: dir, Reason: err.Error()}
	}

	files := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// Skip the lock files spreadsheet applications leave behind.
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if workbookExtensions[strings.ToLower(filepath.Ext(name))] {
			files[name] = filepath.Join(dir, name)
		}
	}
	return files, nil
}
