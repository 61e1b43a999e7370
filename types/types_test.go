package types

import (
	"math"
	"testing"
	"time"
)

func TestAllocationValidate(t *testing.T) {
	cases := []struct {
		name    string
		alloc   Allocation
		wantErr bool
	}{
		{"empty", Allocation{}, false},
		{"fully invested", Allocation{"AAPL": 1}, false},
		{"divested", Allocation{"AAPL": 0}, false},
		{"negative", Allocation{"AAPL": -0.1}, true},
		{"above one", Allocation{"AAPL": 1.5}, true},
		{"nan", Allocation{"AAPL": math.NaN()}, true},
		{"total above one", Allocation{"AAPL": 0.6, "MSFT": 0.6}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.alloc.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestAllocationWeightMissingTicker(t *testing.T) {
	a := Allocation{"AAPL": 1}
	if w := a.Weight("MSFT"); w != 0 {
		t.Fatalf("expected 0 for missing ticker, got %v", w)
	}
}

func TestIntervalDuration(t *testing.T) {
	if !Interval1Day.Valid() {
		t.Fatal("1day should be valid")
	}
	if d := Interval1Day.Duration(); d != 24*time.Hour {
		t.Fatalf("unexpected duration %v", d)
	}
	if Interval("2day").Valid() {
		t.Fatal("2day should not be valid")
	}
}

func TestCloses(t *testing.T) {
	bars := []Bar{{Close: 1}, {Close: 2}, {Close: 3}}
	got := Closes(bars)
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected closes %v", got)
	}
}
