// Package source maps a (dataset, report date) pair to the AER download URL
// and the transient storage key. Pure string templating, no I/O.
package source

import (
	"fmt"
	"time"

	"aer-digest/internal/types"
)

const (
	st1URLTemplate   = "https://static.aer.ca/data/well-lic/WELLS%s.txt"
	st100URLTemplate = "https://static.aer.ca/prd/data/pipeconst/PIPE%s.txt"
)

// URL builds the retrieval URL for a dataset's report on the given date.
// The AER names daily files by month and day only.
func URL(dataset types.Dataset, day time.Time) (string, error) {
	mmdd := day.Format("0102")
	switch dataset {
	case types.DatasetST1:
		return fmt.Sprintf(st1URLTemplate, mmdd), nil
	case types.DatasetST100:
		return fmt.Sprintf(st100URLTemplate, mmdd), nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnknownDataset, dataset)
	}
}

// Key builds the transient storage key: YYYY/MM/DD/<dataset>_<YYYYMMDD>.txt
// with a lowercase dataset tag.
func Key(day time.Time, dataset types.Dataset) (string, error) {
	if !dataset.Known() {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownDataset, dataset)
	}
	return fmt.Sprintf("%s/%s_%s.txt", day.Format("2006/01/02"), dataset.Lower(), day.Format("20060102")), nil
}
