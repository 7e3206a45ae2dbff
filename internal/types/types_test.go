package types

import (
	"errors"
	"testing"
)

func TestParseDataset(t *testing.T) {
	tests := []struct {
		in   string
		want Dataset
	}{
		{"ST1", DatasetST1},
		{"st1", DatasetST1},
		{" ST100 ", DatasetST100},
		{"st100", DatasetST100},
	}
	for _, tc := range tests {
		got, err := ParseDataset(tc.in)
		if err != nil {
			t.Fatalf("ParseDataset(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseDataset(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseDatasetRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "ST2", "ST1000", "wells"} {
		_, err := ParseDataset(in)
		if !errors.Is(err, ErrUnknownDataset) {
			t.Errorf("ParseDataset(%q) err = %v, want ErrUnknownDataset", in, err)
		}
	}
}

func TestDatasetLower(t *testing.T) {
	if got := DatasetST100.Lower(); got != "st100" {
		t.Errorf("Lower() = %q, want %q", got, "st100")
	}
}
