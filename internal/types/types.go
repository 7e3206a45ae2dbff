package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDataset is returned for any dataset tag outside the closed set.
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset identifies one of the AER daily releases we know how to fetch.
type Dataset string

const (
	// DatasetST1 is the ST1 well licence daily list.
	DatasetST1 Dataset = "ST1"
	// DatasetST100 is the ST100 pipeline construction notice list.
	DatasetST100 Dataset = "ST100"
)

// ParseDataset validates a dataset tag. Unknown tags are rejected, never
// defaulted.
func ParseDataset(s string) (Dataset, error) {
	switch Dataset(strings.ToUpper(strings.TrimSpace(s))) {
	case DatasetST1:
		return DatasetST1, nil
	case DatasetST100:
		return DatasetST100, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
	}
}

// Known reports whether d is a member of the closed dataset set.
func (d Dataset) Known() bool {
	return d == DatasetST1 || d == DatasetST100
}

// Lower returns the lowercase tag used in storage keys.
func (d Dataset) Lower() string { return strings.ToLower(string(d)) }

// Status is the terminal state of a single invocation.
type Status string

const (
	// StatusNotReady means the source returned 404: the report is not yet
	// published. This is a normal outcome, not an error.
	StatusNotReady Status = "not_ready"
	// StatusEmailedAndDeleted means the full pipeline ran: the artifact was
	// stored, summarized, delivered, and the temporary object removed.
	StatusEmailedAndDeleted Status = "emailed_and_deleted"
)

// Request is the invocation input.
type Request struct {
	Dataset string `json:"dataset"`
}

// Result is the invocation output.
type Result struct {
	Dataset Dataset `json:"dataset"`
	Date    string  `json:"date"`
	Status  Status  `json:"status"`
	URL     string  `json:"url,omitempty"`
}
