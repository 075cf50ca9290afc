package model

import "time"

// FlowRecord holds the per-flow counters reported by the external
// simulator's flow monitor. One record per logical flow per trial; the
// aggregator consumes it exactly once at trial end.
type FlowRecord struct {
	FlowID    uint32
	SrcAddr   string
	DstAddr   string
	TxBytes   uint64
	RxBytes   uint64
	TxPackets uint64
	RxPackets uint64

	// FirstTxSeconds and LastRxSeconds are simulation timestamps of the
	// first transmitted and last received packet. A flow whose span is
	// not strictly positive contributes no throughput.
	FirstTxSeconds float64
	LastRxSeconds  float64

	// DelaySumSeconds and JitterSumSeconds are sums over received
	// packets; divide by RxPackets for per-packet means.
	DelaySumSeconds  float64
	JitterSumSeconds float64
}

// MeanDelaySeconds returns the mean one-way delay over received packets,
// or 0 when nothing was received.
func (f FlowRecord) MeanDelaySeconds() float64 {
	if f.RxPackets == 0 {
		return 0
	}
	return f.DelaySumSeconds / float64(f.RxPackets)
}

// MeanJitterSeconds returns the mean jitter over received packets, or 0
// when nothing was received.
func (f FlowRecord) MeanJitterSeconds() float64 {
	if f.RxPackets == 0 {
		return 0
	}
	return f.JitterSumSeconds / float64(f.RxPackets)
}

// SINRDomain tags the scale a SINR observation was measured in. Linear
// ratios and decibel readings are not mean-compatible, so every sample
// carries its domain and the aggregator refuses to combine the two.
type SINRDomain int

const (
	SINRDomainLinear SINRDomain = iota
	SINRDomainDB
)

func (d SINRDomain) String() string {
	switch d {
	case SINRDomainLinear:
		return "linear"
	case SINRDomainDB:
		return "dB"
	default:
		return "unknown"
	}
}

// SINRSample is a single per-reception SINR observation.
type SINRSample struct {
	Value  float64
	Domain SINRDomain
}

// TelemetryBundle is the one-shot telemetry handoff from the external
// simulator at the end of a trial.
type TelemetryBundle struct {
	Flows []FlowRecord

	// HasFlowTimestamps reports whether the flow records carry per-flow
	// first-tx/last-rx timestamps. Without them throughput must be
	// normalized against the trial duration instead of per-flow spans.
	HasFlowTimestamps bool

	// Samples may be empty; not every scenario exposes a per-reception
	// SINR trace.
	Samples []SINRSample

	// RealizedDuration is the simulated time the trial actually covered.
	// Zero means the simulator did not report one and the requested
	// duration applies.
	RealizedDuration time.Duration
}
