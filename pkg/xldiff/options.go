// Package xldiff compares spreadsheet documents structurally: cell values,
// formulas, comments, validations, protection, formatting, row/column
// geometry and workbook metadata.
package xldiff

import (
	"fmt"
	"time"

	"github.com/hmakino/xldiff-go/pkg/xldiff/models"
)

// Options configures comparison behavior.
type Options struct {
	// Tier controls how many visual formatting properties are checked
	// (off, common, full).
	Tier models.Tier
	// Workers bounds concurrent pair comparisons in batch mode. Values
	// below 1 mean sequential.
	Workers int
	// OpenTimeout, when positive, bounds a single file open. A timeout is
	// recorded as that pair's open failure, never a batch abort.
	OpenTimeout time.Duration
}

// DefaultOptions returns default comparison options.
func DefaultOptions() Options {
	return Options{
		Tier:    models.TierCommon,
		Workers: 1,
	}
}

// ParseTier maps a tier name to a Tier.
func ParseTier(s string) (models.Tier, error) {
	t := models.Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid tier: %s (must be off, common, or full)", s)
	}
	return t, nil
}

func (o Options) tier() models.Tier {
	if o.Tier.Valid() {
		return o.Tier
	}
	return models.TierCommon
}
