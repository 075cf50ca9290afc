// Package harness runs one mask evaluation end to end: load and
// normalize the site file, apply the activation mask, hand the topology
// to the external simulator, and reduce its telemetry into a TrialResult.
package harness

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aguillonlei-alt/OPTIC-5G/geo"
	"github.com/aguillonlei-alt/OPTIC-5G/internal/logging"
	"github.com/aguillonlei-alt/OPTIC-5G/internal/observability"
	"github.com/aguillonlei-alt/OPTIC-5G/kpi"
	"github.com/aguillonlei-alt/OPTIC-5G/model"
	"github.com/aguillonlei-alt/OPTIC-5G/scenario"
)

const tracerName = "github.com/aguillonlei-alt/OPTIC-5G/harness"

// Params are the knobs of one trial.
type Params struct {
	SiteFile string
	Mask     model.ActivationMask
	UECount  int
	Duration time.Duration

	// SiteWatts is the static draw per active site from the scenario
	// class configuration.
	SiteWatts float64
}

// Harness wires the loader, the simulator boundary, and observability.
// One Harness may evaluate many trials, but every trial gets a fresh
// topology snapshot and a fresh accumulator; nothing mutable is shared
// between evaluations.
type Harness struct {
	Loader        *geo.Loader
	Runner        scenario.Runner
	PaddingMeters float64
	Collector     *observability.HarnessCollector
	Log           logging.Logger
}

// Evaluate runs one trial. The returned bundle lets callers write the
// per-flow artifact; it is nil when the trial failed before telemetry.
func (h *Harness) Evaluate(ctx context.Context, p Params) (model.TrialResult, *model.TelemetryBundle, error) {
	log := h.Log
	if log == nil {
		log = logging.Noop()
	}
	ctx, log = logging.WithTrialLogger(ctx, log)

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "trial",
		trace.WithAttributes(
			attribute.String("mask", p.Mask.String()),
			attribute.Int("ue_count", p.UECount),
			attribute.Float64("duration_s", p.Duration.Seconds()),
		))
	defer span.End()

	start := time.Now()
	result, bundle, err := h.evaluate(ctx, tracer, log, p)
	h.Collector.ObserveTrial(resultPtr(result, err), time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error(ctx, "trial failed", logging.String("error", err.Error()))
		return model.TrialResult{}, nil, err
	}

	log.Info(ctx, "trial complete",
		logging.Int("active_sites", result.ActiveSites),
		logging.Float64("energy_watts", result.EnergyWatts),
		logging.Float64("throughput_mbps", result.ThroughputMbps),
		logging.Float64("avg_sinr_db", result.AvgSINRdB),
		logging.Float64("packet_loss_pct", result.PacketLossPct),
	)
	return result, bundle, nil
}

// evaluate runs the trial phases. Each phase span is started from the
// trial context so the phases record as siblings, not as children of an
// already-ended predecessor.
func (h *Harness) evaluate(ctx context.Context, tracer trace.Tracer, log logging.Logger, p Params) (model.TrialResult, *model.TelemetryBundle, error) {
	loadCtx, loadSpan := tracer.Start(ctx, "load_sites")
	sites, stats, err := h.Loader.Load(loadCtx, p.SiteFile)
	loadSpan.End()
	if err != nil {
		return model.TrialResult{}, nil, err
	}
	h.Collector.ObserveLoad(len(sites), stats.RowsSkipped, stats.HeuristicFired)

	padding := h.PaddingMeters
	if padding == 0 {
		padding = geo.DefaultPaddingMeters
	}

	_, buildSpan := tracer.Start(ctx, "build_topology")
	normalized := geo.Normalize(sites, padding)
	topo := scenario.NewBuilder(normalized).Build(p.Mask, p.UECount, p.Duration)
	buildSpan.End()
	log.Info(ctx, "topology built",
		logging.Int("sites", topo.TotalSites()),
		logging.Int("active", len(topo.ActiveSites)),
		logging.Int("inactive", topo.InactiveCount),
	)

	simCtx, simSpan := tracer.Start(ctx, "simulate")
	bundle, err := h.Runner.Run(simCtx, topo)
	simSpan.End()
	if err != nil {
		return model.TrialResult{}, nil, err
	}
	if bundle.RealizedDuration == 0 {
		bundle.RealizedDuration = p.Duration
	}

	// Flow tables without per-flow timestamps are aggregated under the
	// nominal-duration convention.
	acc := kpi.NewAccumulator()
	if !bundle.HasFlowTimestamps {
		acc = kpi.NewNominalAccumulator(bundle.RealizedDuration)
	}

	_, aggSpan := tracer.Start(ctx, "aggregate")
	result, err := kpi.Result(bundle, p.Mask.String(), len(topo.ActiveSites), p.SiteWatts, acc)
	aggSpan.End()
	if err != nil {
		return model.TrialResult{}, nil, err
	}
	return result, bundle, nil
}

func resultPtr(r model.TrialResult, err error) *model.TrialResult {
	if err != nil {
		return nil
	}
	return &r
}
