package harness

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "trials.db"))
	if err != nil {
		t.Fatalf("OpenStore returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndQueryByMask(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	res := model.TrialResult{
		Mask:           "1010",
		ActiveSites:    2,
		EnergyWatts:    260,
		ThroughputMbps: 95.5,
		AvgSINRdB:      17.25,
		PacketLossPct:  2.5,
		Duration:       40 * time.Second,
	}
	flows := []model.FlowRecord{
		{FlowID: 1, SrcAddr: "10.0.0.1", DstAddr: "10.0.0.2", TxBytes: 100, RxBytes: 90, TxPackets: 10, RxPackets: 9},
		{FlowID: 2, TxBytes: 50, TxPackets: 5},
	}

	id, err := store.SaveTrial(ctx, res, flows)
	if err != nil {
		t.Fatalf("SaveTrial returned error: %v", err)
	}
	if id <= 0 {
		t.Fatalf("trial id = %d, want positive", id)
	}

	got, err := store.TrialsByMask(ctx, "1010")
	if err != nil {
		t.Fatalf("TrialsByMask returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d trials, want 1", len(got))
	}
	r := got[0]
	if r.Mask != res.Mask || r.ActiveSites != res.ActiveSites {
		t.Errorf("got %+v, want %+v", r, res)
	}
	if r.EnergyWatts != res.EnergyWatts || r.ThroughputMbps != res.ThroughputMbps {
		t.Errorf("KPIs = (%v, %v), want (%v, %v)",
			r.EnergyWatts, r.ThroughputMbps, res.EnergyWatts, res.ThroughputMbps)
	}
	if r.AvgSINRdB != res.AvgSINRdB || r.PacketLossPct != res.PacketLossPct {
		t.Errorf("KPIs = (%v, %v), want (%v, %v)",
			r.AvgSINRdB, r.PacketLossPct, res.AvgSINRdB, res.PacketLossPct)
	}
	if r.Duration != res.Duration {
		t.Errorf("Duration = %v, want %v", r.Duration, res.Duration)
	}
}

func TestStore_TrialsByMask_NewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := model.TrialResult{Mask: "11", ThroughputMbps: 1}
	second := model.TrialResult{Mask: "11", ThroughputMbps: 2}
	if _, err := store.SaveTrial(ctx, first, nil); err != nil {
		t.Fatalf("SaveTrial returned error: %v", err)
	}
	if _, err := store.SaveTrial(ctx, second, nil); err != nil {
		t.Fatalf("SaveTrial returned error: %v", err)
	}

	got, err := store.TrialsByMask(ctx, "11")
	if err != nil {
		t.Fatalf("TrialsByMask returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trials, want 2", len(got))
	}
	if got[0].ThroughputMbps != 2 || got[1].ThroughputMbps != 1 {
		t.Errorf("order = %v, %v, want newest first", got[0].ThroughputMbps, got[1].ThroughputMbps)
	}
}

func TestStore_UnknownMaskEmpty(t *testing.T) {
	store := openTestStore(t)
	got, err := store.TrialsByMask(context.Background(), "0000")
	if err != nil {
		t.Fatalf("TrialsByMask returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d trials, want 0", len(got))
	}
}
