package kpi

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// SINRFloorDB is the sentinel reported when the average SINR is
// undefined: no samples at all, or a non-positive linear mean whose
// logarithm does not exist. It ranks strictly below any plausible real
// reading so degenerate trials stay comparable instead of crashing the
// optimizer loop.
const SINRFloorDB = -100.0

// ErrMixedSINRDomains is returned when one trial feeds both linear and
// dB samples into the accumulator. Averaging across the two scales
// silently produces garbage, so it is a hard error.
var ErrMixedSINRDomains = errors.New("kpi: SINR samples mix linear and dB domains")

// ThroughputConvention selects how flow throughput is normalized.
// The two conventions are not interchangeable and the choice is fixed
// when the accumulator is created, so a single trial can never mix them.
type ThroughputConvention int

const (
	// PerFlowDuration divides each flow's received bytes by its own
	// active span (last rx − first tx); flows without a positive span
	// contribute nothing.
	PerFlowDuration ThroughputConvention = iota
	// NominalDuration divides every flow by the trial duration. Used
	// when the simulator does not report per-flow timestamps.
	NominalDuration
)

// Accumulator folds per-flow counters and SINR observations into trial
// KPIs. It is caller-owned and single-trial: make a fresh one per trial
// and never share it, so no totals bleed across optimizer iterations.
type Accumulator struct {
	convention      ThroughputConvention
	nominalDuration time.Duration

	totalTxPackets uint64
	totalRxPackets uint64
	throughputMbps float64

	sinrSum       float64
	sinrCount     int
	sinrDomain    model.SINRDomain
	sinrDomainSet bool
	sinrMixed     bool
}

// NewAccumulator creates an accumulator using per-flow durations.
func NewAccumulator() *Accumulator {
	return &Accumulator{convention: PerFlowDuration}
}

// NewNominalAccumulator creates an accumulator that normalizes every
// flow against the given trial duration.
func NewNominalAccumulator(duration time.Duration) *Accumulator {
	return &Accumulator{convention: NominalDuration, nominalDuration: duration}
}

// AddFlow folds one flow record into the running totals.
func (a *Accumulator) AddFlow(f model.FlowRecord) {
	a.totalTxPackets += f.TxPackets
	a.totalRxPackets += f.RxPackets

	if f.RxPackets == 0 {
		return
	}

	var seconds float64
	switch a.convention {
	case NominalDuration:
		seconds = a.nominalDuration.Seconds()
	default:
		seconds = f.LastRxSeconds - f.FirstTxSeconds
	}
	// A non-positive span excludes the flow from throughput; it is not
	// a division error.
	if seconds <= 0 {
		return
	}
	a.throughputMbps += float64(f.RxBytes) * 8.0 / (seconds * 1e6)
}

// AddSINRSample folds one SINR observation into the running mean. The
// first sample fixes the domain; a later sample from the other domain
// poisons the accumulator and Result returns ErrMixedSINRDomains.
func (a *Accumulator) AddSINRSample(s model.SINRSample) {
	if !a.sinrDomainSet {
		a.sinrDomain = s.Domain
		a.sinrDomainSet = true
	} else if s.Domain != a.sinrDomain {
		a.sinrMixed = true
		return
	}
	a.sinrSum += s.Value
	a.sinrCount++
}

// PacketLossPct returns 100 × (Σtx − Σrx) / Σtx, and 100 when nothing
// was transmitted so a dead trial can never look lossless. A monitor
// reporting more receptions than transmissions clamps to 0 instead of
// going negative.
func (a *Accumulator) PacketLossPct() float64 {
	if a.totalTxPackets == 0 {
		return 100.0
	}
	if a.totalRxPackets >= a.totalTxPackets {
		return 0.0
	}
	return 100.0 * float64(a.totalTxPackets-a.totalRxPackets) / float64(a.totalTxPackets)
}

// ThroughputMbps returns the aggregate received throughput.
func (a *Accumulator) ThroughputMbps() float64 { return a.throughputMbps }

// AvgSINRdB reduces the collected samples to decibels. Linear samples
// are averaged in linear scale and converted via 10·log10(mean); dB
// samples are averaged directly. Zero samples or a non-positive linear
// mean report the floor sentinel.
func (a *Accumulator) AvgSINRdB() (float64, error) {
	if a.sinrMixed {
		return 0, ErrMixedSINRDomains
	}
	if a.sinrCount == 0 {
		return SINRFloorDB, nil
	}
	mean := a.sinrSum / float64(a.sinrCount)
	if a.sinrDomain == model.SINRDomainDB {
		return mean, nil
	}
	if mean <= 0 {
		return SINRFloorDB, nil
	}
	return 10.0 * math.Log10(mean), nil
}

// Result reduces a full telemetry bundle plus the topology facts into an
// immutable TrialResult. perSiteWatts is the scenario class's static
// draw per active site.
func Result(bundle *model.TelemetryBundle, mask string, activeCount int, perSiteWatts float64, acc *Accumulator) (model.TrialResult, error) {
	if acc == nil {
		return model.TrialResult{}, fmt.Errorf("kpi: nil accumulator")
	}
	for _, f := range bundle.Flows {
		acc.AddFlow(f)
	}
	for _, s := range bundle.Samples {
		acc.AddSINRSample(s)
	}

	sinr, err := acc.AvgSINRdB()
	if err != nil {
		return model.TrialResult{}, err
	}

	return model.TrialResult{
		Mask:           mask,
		ActiveSites:    activeCount,
		EnergyWatts:    Energy(activeCount, perSiteWatts),
		ThroughputMbps: acc.ThroughputMbps(),
		AvgSINRdB:      sinr,
		PacketLossPct:  acc.PacketLossPct(),
		Duration:       bundle.RealizedDuration,
	}, nil
}
