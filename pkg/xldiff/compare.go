package xldiff

import (
	"errors"
	"os"
	"time"

	"github.com/hmakino/xldiff-go/pkg/xldiff/compare"
	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
	"github.com/hmakino/xldiff-go/pkg/xldiff/source"
)

// CompareFiles opens two workbook files read-only and compares them. An open
// failure is fatal here; batch mode handles it per pair instead.
func CompareFiles(pathA, pathB string, opts Options) (*models.ComparisonReport, error) {
	for _, path := range []string{pathA, pathB} {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &PreconditionError{Path: path, Reason: "file not found"}
		}
		if info.IsDir() {
			return nil, &PreconditionError{Path: path, Reason: "is a directory, not a workbook file"}
		}
	}

	wbA, err := openWorkbook(pathA, opts.OpenTimeout)
	if err != nil {
		return nil, err
	}
	defer wbA.Close()

	wbB, err := openWorkbook(pathB, opts.OpenTimeout)
	if err != nil {
		return nil, err
	}
	defer wbB.Close()

	return CompareWorkbooks(wbA, wbB, opts), nil
}

// CompareWorkbooks compares two already-open workbook views.
func CompareWorkbooks(a, b source.Workbook, opts Options) *models.ComparisonReport {
	return compare.Workbooks(a, b, opts.tier())
}

// errOpenTimeout marks an open that exceeded Options.OpenTimeout.
var errOpenTimeout = errors.New("open timed out")

func openWorkbook(path string, timeout time.Duration) (source.Workbook, error) {
	if timeout <= 0 {
		wb, err := source.Open(path)
		if err != nil {
			return nil, &OpenError{Path: path, Err: err}
		}
		return wb, nil
	}

	type result struct {
		wb  source.Workbook
		err error
	}
	// Buffered so a late open never blocks the abandoned goroutine.
	ch := make(chan result, 1)
	go func() {
		wb, err := source.Open(path)
		ch <- result{wb, err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			return nil, &OpenError{Path: path, Err: r.err}
		}
		return r.wb, nil
	case <-time.After(timeout):
		go func() {
			if r := <-ch; r.wb != nil {
				r.wb.Close()
			}
		}()
		return nil, &OpenError{Path: path, Err: errOpenTimeout}
	}
}
