package source

import (
	"errors"
	"testing"
	"time"

	"aer-digest/internal/types"
)

func TestURL(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		dataset types.Dataset
		want    string
	}{
		{types.DatasetST1, "https://static.aer.ca/data/well-lic/WELLS0305.txt"},
		{types.DatasetST100, "https://static.aer.ca/prd/data/pipeconst/PIPE0305.txt"},
	}
	for _, tc := range tests {
		got, err := URL(tc.dataset, day)
		if err != nil {
			t.Fatalf("URL(%s): %v", tc.dataset, err)
		}
		if got != tc.want {
			t.Errorf("URL(%s) = %q, want %q", tc.dataset, got, tc.want)
		}
	}
}

func TestURLZeroPadding(t *testing.T) {
	day := time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC)
	got, err := URL(types.DatasetST1, day)
	if err != nil {
		t.Fatal(err)
	}
	if want := "https://static.aer.ca/data/well-lic/WELLS1225.txt"; got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestURLUnknownDataset(t *testing.T) {
	_, err := URL(types.Dataset("ST42"), time.Now())
	if !errors.Is(err, types.ErrUnknownDataset) {
		t.Fatalf("err = %v, want ErrUnknownDataset", err)
	}
}

func TestKey(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	got, err := Key(day, types.DatasetST100)
	if err != nil {
		t.Fatal(err)
	}
	if want := "2024/03/05/st100_20240305.txt"; got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
}

func TestKeyUnknownDataset(t *testing.T) {
	_, err := Key(time.Now(), types.Dataset(""))
	if !errors.Is(err, types.ErrUnknownDataset) {
		t.Fatalf("err = %v, want ErrUnknownDataset", err)
	}
}
