package strategy

import (
	"errors"
	"testing"

	"github.com/evdnx/gorsi/config"
	"github.com/evdnx/gorsi/types"
)

func TestRSIThreshold_AssetsAndInterval(t *testing.T) {
	s, _, _ := buildThreshold(t)
	assets := s.Assets()
	if len(assets) != 1 || assets[0] != "AAPL" {
		t.Fatalf("unexpected assets %v", assets)
	}
	if s.Interval() != types.Interval1Day {
		t.Fatalf("unexpected interval %q", s.Interval())
	}
}

func TestRSIThreshold_OversoldBuys(t *testing.T) {
	s, prov, log := buildThreshold(t, 45, 35, 22.5)
	bars := toBars(rampCandles(100, -1, 20))

	alloc, err := s.Run(NewSnapshot("AAPL", bars))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if w := alloc.Weight("AAPL"); w != 1 {
		t.Fatalf("expected full allocation, got %v", w)
	}
	if len(prov.Calls) != 1 {
		t.Fatalf("expected one provider call, got %d", len(prov.Calls))
	}
	call := prov.Calls[0]
	if call.Ticker != "AAPL" || call.Length != 14 || call.Bars != 20 {
		t.Fatalf("unexpected provider call %+v", call)
	}
	entries := log.Find("rsi_decision")
	if len(entries) != 1 {
		t.Fatalf("expected one rsi_decision log, got %d", len(entries))
	}
	if f, ok := entries[0].Field("signal"); !ok || f.String != string(SignalOversold) {
		t.Fatalf("expected signal=oversold in log, got %+v", f)
	}
}

func TestRSIThreshold_OverboughtDivests(t *testing.T) {
	s, _, _ := buildThreshold(t, 50, 71)
	alloc, err := s.Run(NewSnapshot("AAPL", nil))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if w, ok := alloc["AAPL"]; !ok || w != 0 {
		t.Fatalf("expected explicit zero allocation, got %v", alloc)
	}
}

func TestRSIThreshold_NeutralDivests(t *testing.T) {
	s, _, _ := buildThreshold(t, 10, 55)
	alloc, err := s.Run(Snapshot{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if w := alloc.Weight("AAPL"); w != 0 {
		t.Fatalf("expected zero allocation in neutral zone, got %v", w)
	}
}

func TestRSIThreshold_EmptyRSI(t *testing.T) {
	s, _, log := buildThreshold(t)
	alloc, err := s.Run(Snapshot{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(alloc) != 1 || alloc.Weight("AAPL") != 0 {
		t.Fatalf("expected {AAPL: 0}, got %v", alloc)
	}
	entry := log.Find("rsi_decision")[0]
	if _, ok := entry.Field("rsi"); ok {
		t.Fatal("rsi field should be omitted when no value is available")
	}
}

func TestRSIThreshold_EvaluateReportsDecision(t *testing.T) {
	s, prov, log := buildThreshold(t, 40, 25.5)
	d, alloc, err := s.Evaluate(Snapshot{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if d.Signal != SignalOversold || d.RSI != 25.5 || d.Weight != 1 {
		t.Fatalf("unexpected decision %+v", d)
	}
	if alloc.Weight("AAPL") != d.Weight {
		t.Fatalf("allocation %v does not match decision weight %v", alloc, d.Weight)
	}
	if len(prov.Calls) != 1 || len(log.Find("rsi_decision")) != 1 {
		t.Fatalf("expected one provider call and one decision log, got %d and %d",
			len(prov.Calls), len(log.Find("rsi_decision")))
	}
}

func TestRSIThreshold_ProviderError(t *testing.T) {
	s, prov, log := buildThreshold(t)
	prov.Err = errors.New("feed down")
	if _, err := s.Run(Snapshot{}); err == nil {
		t.Fatal("expected provider error to surface")
	}
	if len(log.Find("rsi_unavailable")) != 1 {
		t.Fatal("expected rsi_unavailable log entry")
	}
}

func TestRSIThreshold_ConstructorValidation(t *testing.T) {
	cfg := config.Default()
	cfg.RSIOversold = 80
	if _, err := NewRSIThreshold(cfg, nil, nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
	s, _, _ := buildThreshold(t)
	if _, err := NewRSIThreshold(cfg, s.Indicators, nil); err == nil {
		t.Fatal("expected error for invalid thresholds")
	}
}

/*
End-to-end with the real talib provider: a long slide drives RSI to 0
(oversold → buy), a long rally drives it to 100 (overbought → sell).
*/
func TestRSIThreshold_TalibEndToEnd(t *testing.T) {
	s := buildTalibThreshold(t)

	down := toBars(rampCandles(150, -1, 30))
	alloc, err := s.Run(NewSnapshot("AAPL", down))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if alloc.Weight("AAPL") != 1 {
		t.Fatalf("expected buy after slide, got %v", alloc)
	}

	up := toBars(rampCandles(100, 1, 30))
	alloc, err = s.Run(NewSnapshot("AAPL", up))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if alloc.Weight("AAPL") != 0 {
		t.Fatalf("expected divest after rally, got %v", alloc)
	}

	// a ticker that never moves reads as neutral, not oversold
	flat := toBars(rampCandles(120, 0, 30))
	alloc, err = s.Run(NewSnapshot("AAPL", flat))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if alloc.Weight("AAPL") != 0 {
		t.Fatalf("expected zero allocation on a flat series, got %v", alloc)
	}

	short := toBars(rampCandles(150, -1, 10))
	alloc, err = s.Run(NewSnapshot("AAPL", short))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if alloc.Weight("AAPL") != 0 {
		t.Fatalf("expected zero allocation during warm-up, got %v", alloc)
	}
}
