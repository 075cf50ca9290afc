package model

import "time"

// TrialResult is the scenario-level KPI vector produced by one trial.
// It is created once at trial end and never mutated; the outer optimizer
// ranks masks on these five scalars.
type TrialResult struct {
	Mask        string
	ActiveSites int

	// EnergyWatts estimates total static draw of the active sites.
	// Lower is better.
	EnergyWatts float64

	// ThroughputMbps is the aggregate received throughput. Higher is
	// better.
	ThroughputMbps float64

	// AvgSINRdB is the average SINR in decibels, or the documented floor
	// when the trial produced no usable samples. Higher is better.
	AvgSINRdB float64

	// PacketLossPct is 100 × (Σtx − Σrx) / Σtx, and 100 when no traffic
	// was transmitted. Lower is better.
	PacketLossPct float64

	// Duration is the simulated time the KPIs cover.
	Duration time.Duration
}
