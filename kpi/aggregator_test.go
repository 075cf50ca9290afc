package kpi

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

func TestPacketLossPct(t *testing.T) {
	acc := NewAccumulator()
	acc.AddFlow(model.FlowRecord{TxPackets: 100, RxPackets: 60})
	if got := acc.PacketLossPct(); got != 40.0 {
		t.Errorf("PacketLossPct = %v, want 40", got)
	}
}

func TestPacketLossPct_NothingTransmitted(t *testing.T) {
	acc := NewAccumulator()
	if got := acc.PacketLossPct(); got != 100.0 {
		t.Errorf("PacketLossPct with no traffic = %v, want 100", got)
	}
	// Received-but-not-transmitted is still reported against Σtx = 0.
	acc.AddFlow(model.FlowRecord{RxPackets: 5, LastRxSeconds: 1})
	if got := acc.PacketLossPct(); got != 100.0 {
		t.Errorf("PacketLossPct with zero tx = %v, want 100", got)
	}
}

func TestPacketLossPct_MoreReceivedThanSentClampsToZero(t *testing.T) {
	acc := NewAccumulator()
	acc.AddFlow(model.FlowRecord{TxPackets: 10, RxPackets: 15, RxBytes: 100, LastRxSeconds: 1})
	if got := acc.PacketLossPct(); got != 0 {
		t.Errorf("PacketLossPct with rx > tx = %v, want clamped 0", got)
	}
}

func TestThroughput_PerFlowDuration(t *testing.T) {
	acc := NewAccumulator()
	// 1,250,000 bytes over a 1 s span = 10 Mbps.
	acc.AddFlow(model.FlowRecord{
		RxBytes:        1_250_000,
		TxPackets:      1000,
		RxPackets:      1000,
		FirstTxSeconds: 2.0,
		LastRxSeconds:  3.0,
	})
	if got := acc.ThroughputMbps(); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("ThroughputMbps = %v, want 10", got)
	}
}

func TestThroughput_NonPositiveSpanContributesNothing(t *testing.T) {
	acc := NewAccumulator()
	acc.AddFlow(model.FlowRecord{
		RxBytes:        1_000_000,
		TxPackets:      10,
		RxPackets:      10,
		FirstTxSeconds: 5.0,
		LastRxSeconds:  5.0,
	})
	if got := acc.ThroughputMbps(); got != 0 {
		t.Errorf("ThroughputMbps with zero span = %v, want 0", got)
	}
	// Counters still fold into loss even when throughput is excluded.
	if got := acc.PacketLossPct(); got != 0 {
		t.Errorf("PacketLossPct = %v, want 0", got)
	}
}

func TestThroughput_NominalDuration(t *testing.T) {
	acc := NewNominalAccumulator(2 * time.Second)
	// Per-flow timestamps are ignored under the nominal convention.
	acc.AddFlow(model.FlowRecord{
		RxBytes:        1_250_000,
		TxPackets:      1000,
		RxPackets:      1000,
		FirstTxSeconds: 2.0,
		LastRxSeconds:  3.0,
	})
	if got := acc.ThroughputMbps(); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("ThroughputMbps = %v, want 5", got)
	}
}

func TestThroughput_NoReceivedPackets(t *testing.T) {
	acc := NewAccumulator()
	acc.AddFlow(model.FlowRecord{
		TxPackets:      50,
		RxBytes:        999,
		FirstTxSeconds: 0,
		LastRxSeconds:  10,
	})
	if got := acc.ThroughputMbps(); got != 0 {
		t.Errorf("ThroughputMbps with rx=0 = %v, want 0", got)
	}
	if got := acc.PacketLossPct(); got != 100.0 {
		t.Errorf("PacketLossPct = %v, want 100", got)
	}
}

func TestAvgSINRdB_LinearSamples(t *testing.T) {
	acc := NewAccumulator()
	for _, v := range []float64{10, 20, 30} {
		acc.AddSINRSample(model.SINRSample{Value: v, Domain: model.SINRDomainLinear})
	}
	got, err := acc.AvgSINRdB()
	if err != nil {
		t.Fatalf("AvgSINRdB returned error: %v", err)
	}
	// 10·log10(20) ≈ 13.0103 dB
	want := 10.0 * math.Log10(20.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("AvgSINRdB = %v, want %v", got, want)
	}
}

func TestAvgSINRdB_DBSamplesAveragedDirectly(t *testing.T) {
	acc := NewAccumulator()
	for _, v := range []float64{10, 20, 30} {
		acc.AddSINRSample(model.SINRSample{Value: v, Domain: model.SINRDomainDB})
	}
	got, err := acc.AvgSINRdB()
	if err != nil {
		t.Fatalf("AvgSINRdB returned error: %v", err)
	}
	if got != 20.0 {
		t.Errorf("AvgSINRdB = %v, want 20", got)
	}
}

func TestAvgSINRdB_FloorSentinels(t *testing.T) {
	// No samples at all.
	acc := NewAccumulator()
	got, err := acc.AvgSINRdB()
	if err != nil {
		t.Fatalf("AvgSINRdB returned error: %v", err)
	}
	if got != SINRFloorDB {
		t.Errorf("AvgSINRdB with no samples = %v, want %v", got, SINRFloorDB)
	}

	// Non-positive linear mean has no logarithm.
	acc = NewAccumulator()
	acc.AddSINRSample(model.SINRSample{Value: -1.0, Domain: model.SINRDomainLinear})
	acc.AddSINRSample(model.SINRSample{Value: 0.5, Domain: model.SINRDomainLinear})
	got, err = acc.AvgSINRdB()
	if err != nil {
		t.Fatalf("AvgSINRdB returned error: %v", err)
	}
	if got != SINRFloorDB {
		t.Errorf("AvgSINRdB with non-positive mean = %v, want %v", got, SINRFloorDB)
	}
}

func TestAvgSINRdB_MixedDomainsIsError(t *testing.T) {
	acc := NewAccumulator()
	acc.AddSINRSample(model.SINRSample{Value: 15, Domain: model.SINRDomainDB})
	acc.AddSINRSample(model.SINRSample{Value: 30, Domain: model.SINRDomainLinear})
	if _, err := acc.AvgSINRdB(); !errors.Is(err, ErrMixedSINRDomains) {
		t.Fatalf("AvgSINRdB error = %v, want ErrMixedSINRDomains", err)
	}
}

func TestResult_EndToEnd(t *testing.T) {
	bundle := &model.TelemetryBundle{
		Flows: []model.FlowRecord{
			{
				RxBytes:        1_250_000,
				TxPackets:      1000,
				RxPackets:      800,
				FirstTxSeconds: 0,
				LastRxSeconds:  1,
			},
			{TxPackets: 200}, // fully lost flow
		},
		Samples: []model.SINRSample{
			{Value: 18, Domain: model.SINRDomainDB},
			{Value: 22, Domain: model.SINRDomainDB},
		},
		RealizedDuration: 40 * time.Second,
	}

	res, err := Result(bundle, "101", 3, 130.0, NewAccumulator())
	if err != nil {
		t.Fatalf("Result returned error: %v", err)
	}
	if res.Mask != "101" {
		t.Errorf("Mask = %q, want %q", res.Mask, "101")
	}
	if res.ActiveSites != 3 {
		t.Errorf("ActiveSites = %d, want 3", res.ActiveSites)
	}
	if res.EnergyWatts != 390.0 {
		t.Errorf("EnergyWatts = %v, want 390", res.EnergyWatts)
	}
	if math.Abs(res.ThroughputMbps-10.0) > 1e-9 {
		t.Errorf("ThroughputMbps = %v, want 10", res.ThroughputMbps)
	}
	if res.AvgSINRdB != 20.0 {
		t.Errorf("AvgSINRdB = %v, want 20", res.AvgSINRdB)
	}
	// (1200 − 800) / 1200 = 33.33…%
	wantLoss := 100.0 * 400.0 / 1200.0
	if math.Abs(res.PacketLossPct-wantLoss) > 1e-9 {
		t.Errorf("PacketLossPct = %v, want %v", res.PacketLossPct, wantLoss)
	}
	if res.Duration != 40*time.Second {
		t.Errorf("Duration = %v, want 40s", res.Duration)
	}
}

func TestResult_NilAccumulator(t *testing.T) {
	if _, err := Result(&model.TelemetryBundle{}, "", 0, 0, nil); err == nil {
		t.Fatalf("expected error for nil accumulator")
	}
}
