// Package reportdate decides which calendar day's AER report is expected to
// be available for download, given the current instant.
//
// The AER publishes from Alberta, so all hour-of-day and weekday reasoning
// happens in America/Edmonton local time. Each dataset has its own
// publication cutoff: ST1 appears mid-morning, ST100 late evening, and ST100
// is not published at all on weekends.
package reportdate

import (
	"errors"
	"fmt"
	"time"

	"aer-digest/internal/types"
)

// PublisherZone is the IANA zone the AER publishes in. Cutoff rules are
// meaningless in any other zone; naive UTC offsets would break on DST
// transitions.
const PublisherZone = "America/Edmonton"

const overrideLayout = "2006-01-02"

// ErrBadOverride is returned when an explicit report-date override cannot be
// parsed. The resolver never falls back to rule logic in that case.
var ErrBadOverride = errors.New("invalid report date override")

// Cutoff hours, publisher-local.
const (
	st1CutoffHour   = 10
	st100CutoffHour = 21
)

// PreviousBusinessDay steps t back one day at a time until it lands on a
// weekday. Mon-Fri inputs are returned unchanged, so the function is
// idempotent. Holidays are not modeled.
func PreviousBusinessDay(t time.Time) time.Time {
	for wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday; wd = t.Weekday() {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// Resolve computes the report date expected to be published for dataset at
// instant now. A non-empty override ("YYYY-MM-DD") bypasses all rule logic.
// The returned time is midnight UTC of the civil report date.
func Resolve(dataset types.Dataset, now time.Time, override string) (time.Time, error) {
	if override != "" {
		d, err := time.Parse(overrideLayout, override)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w %q: %v", ErrBadOverride, override, err)
		}
		return d, nil
	}

	loc, err := time.LoadLocation(PublisherZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load publisher timezone: %w", err)
	}
	local := now.In(loc)
	day := civilDate(local)

	switch dataset {
	case types.DatasetST1:
		if local.Hour() < st1CutoffHour {
			return PreviousBusinessDay(day.AddDate(0, 0, -1)), nil
		}
		return PreviousBusinessDay(day), nil

	case types.DatasetST100:
		if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return PreviousBusinessDay(day), nil
		}
		if local.Hour() < st100CutoffHour {
			return PreviousBusinessDay(day.AddDate(0, 0, -1)), nil
		}
		return PreviousBusinessDay(day), nil

	default:
		return time.Time{}, fmt.Errorf("%w: %q", types.ErrUnknownDataset, dataset)
	}
}

// civilDate strips the time component, keeping only year/month/day. The
// result is anchored at UTC so date arithmetic cannot be skewed by DST.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
