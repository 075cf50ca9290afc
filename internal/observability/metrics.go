package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// HarnessCollector bundles Prometheus metrics for the evaluation harness
// and provides helpers to record trial outcomes and expose /metrics.
type HarnessCollector struct {
	gatherer prometheus.Gatherer

	Trials         *prometheus.CounterVec
	TrialDurations prometheus.Histogram

	RowsSkipped    prometheus.Counter
	HeuristicFired prometheus.Counter

	SitesTotal  prometheus.Gauge
	SitesActive prometheus.Gauge

	ThroughputMbps prometheus.Gauge
	PacketLossPct  prometheus.Gauge
	AvgSINRdB      prometheus.Gauge
	EnergyWatts    prometheus.Gauge
}

// NewHarnessCollector registers harness Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewHarnessCollector(reg prometheus.Registerer) (*HarnessCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optic5g_trials_total",
		Help: "Total number of evaluated trials, labeled by outcome.",
	}, []string{"outcome"})
	trials, err := registerCounterVec(reg, trials, "optic5g_trials_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optic5g_trial_duration_seconds",
		Help:    "Wall-clock time of one full trial, including the external simulation.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
	})
	durations, err = registerHistogram(reg, durations, "optic5g_trial_duration_seconds")
	if err != nil {
		return nil, err
	}

	rowsSkipped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optic5g_site_rows_skipped_total",
		Help: "Site CSV rows dropped for lacking an interpretable coordinate pair.",
	}), "optic5g_site_rows_skipped_total")
	if err != nil {
		return nil, err
	}
	heuristic, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optic5g_coord_heuristic_fired_total",
		Help: "Rows where the degree-vs-meter magnitude heuristic decided the format.",
	}), "optic5g_coord_heuristic_fired_total")
	if err != nil {
		return nil, err
	}

	sitesTotal, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optic5g_sites_total",
		Help: "Candidate sites in the loaded topology.",
	}), "optic5g_sites_total")
	if err != nil {
		return nil, err
	}
	sitesActive, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optic5g_sites_active",
		Help: "Sites kept on by the most recent activation mask.",
	}), "optic5g_sites_active")
	if err != nil {
		return nil, err
	}

	throughput, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optic5g_trial_throughput_mbps",
		Help: "Aggregate throughput of the most recent trial.",
	}), "optic5g_trial_throughput_mbps")
	if err != nil {
		return nil, err
	}
	loss, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optic5g_trial_packet_loss_pct",
		Help: "Packet loss ratio of the most recent trial.",
	}), "optic5g_trial_packet_loss_pct")
	if err != nil {
		return nil, err
	}
	sinr, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optic5g_trial_avg_sinr_db",
		Help: "Average SINR of the most recent trial.",
	}), "optic5g_trial_avg_sinr_db")
	if err != nil {
		return nil, err
	}
	energy, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optic5g_trial_energy_watts",
		Help: "Estimated static draw of the most recent trial's active sites.",
	}), "optic5g_trial_energy_watts")
	if err != nil {
		return nil, err
	}

	return &HarnessCollector{
		gatherer:       gatherer,
		Trials:         trials,
		TrialDurations: durations,
		RowsSkipped:    rowsSkipped,
		HeuristicFired: heuristic,
		SitesTotal:     sitesTotal,
		SitesActive:    sitesActive,
		ThroughputMbps: throughput,
		PacketLossPct:  loss,
		AvgSINRdB:      sinr,
		EnergyWatts:    energy,
	}, nil
}

// ObserveLoad records loader outcomes.
func (c *HarnessCollector) ObserveLoad(sites, rowsSkipped, heuristicFired int) {
	if c == nil {
		return
	}
	c.SitesTotal.Set(float64(sites))
	c.RowsSkipped.Add(float64(rowsSkipped))
	c.HeuristicFired.Add(float64(heuristicFired))
}

// ObserveTrial records the outcome of one trial. result may be nil when
// the trial failed.
func (c *HarnessCollector) ObserveTrial(result *model.TrialResult, wall time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Trials.WithLabelValues(outcome).Inc()
	c.TrialDurations.Observe(wall.Seconds())
	if result == nil {
		return
	}
	c.SitesActive.Set(float64(result.ActiveSites))
	c.ThroughputMbps.Set(result.ThroughputMbps)
	c.PacketLossPct.Set(result.PacketLossPct)
	c.AvgSINRdB.Set(result.AvgSINRdB)
	c.EnergyWatts.Set(result.EnergyWatts)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *HarnessCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
