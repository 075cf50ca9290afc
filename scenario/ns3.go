package scenario

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/aguillonlei-alt/OPTIC-5G/internal/logging"
	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// NS3Config configures the external ns-3-style simulator invocation.
type NS3Config struct {
	// BinPath is the simulator executable.
	BinPath string

	// ExtraArgs are appended verbatim after the generated arguments.
	ExtraArgs []string

	// WorkDir is where the site CSV is written and the simulator is run.
	// The simulator is expected to leave its artifacts under it.
	WorkDir string

	// FlowStatsFile is the flow-monitor CSV the simulator writes,
	// relative to WorkDir.
	FlowStatsFile string

	// SINRSamplesFile is the optional per-reception SINR CSV, relative
	// to WorkDir. Absence is not an error; not every scenario traces
	// SINR.
	SINRSamplesFile string
}

// NS3Runner drives an external simulator binary through one blocking
// invocation per trial: write the active topology, run the binary to
// completion, collect the telemetry artifacts. It satisfies Runner.
type NS3Runner struct {
	cfg NS3Config
	log logging.Logger
}

// NewNS3Runner builds a runner. Zero-value file names get the layout the
// study scenarios use.
func NewNS3Runner(cfg NS3Config, log logging.Logger) *NS3Runner {
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.FlowStatsFile == "" {
		cfg.FlowStatsFile = filepath.Join("outputs", "flow_stats.csv")
	}
	if cfg.SINRSamplesFile == "" {
		cfg.SINRSamplesFile = filepath.Join("outputs", "sinr_samples.csv")
	}
	if log == nil {
		log = logging.Noop()
	}
	return &NS3Runner{cfg: cfg, log: log}
}

// Run implements Runner.
func (r *NS3Runner) Run(ctx context.Context, topo *Topology) (*model.TelemetryBundle, error) {
	if r.cfg.BinPath == "" {
		return nil, &SimulationFault{Stage: "launch", Err: fmt.Errorf("no simulator binary configured")}
	}
	if err := os.MkdirAll(r.cfg.WorkDir, 0o755); err != nil {
		return nil, &SimulationFault{Stage: "launch", Err: err}
	}

	const siteFileName = "active_sites.csv"
	if err := ExportSitesCSV(filepath.Join(r.cfg.WorkDir, siteFileName), topo.ActiveSites); err != nil {
		return nil, &SimulationFault{Stage: "launch", Err: err}
	}

	// The simulator runs with WorkDir as its cwd, so generated paths are
	// relative to it.
	args := []string{
		fmt.Sprintf("--siteFile=%s", siteFileName),
		fmt.Sprintf("--numUes=%d", topo.UECount),
		fmt.Sprintf("--simTime=%g", topo.Duration.Seconds()),
	}
	args = append(args, r.cfg.ExtraArgs...)

	cmd := exec.CommandContext(ctx, r.cfg.BinPath, args...)
	cmd.Dir = r.cfg.WorkDir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	r.log.Info(ctx, "starting external simulation",
		logging.String("bin", r.cfg.BinPath),
		logging.String("args", strings.Join(args, " ")),
		logging.Int("active_sites", len(topo.ActiveSites)),
	)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, &SimulationFault{Stage: "execute", Err: err}
	}
	r.log.Info(ctx, "external simulation finished",
		logging.Any("wall_time", time.Since(start).Round(time.Millisecond)),
	)

	flows, hasTimestamps, err := ReadFlowStatsCSV(filepath.Join(r.cfg.WorkDir, r.cfg.FlowStatsFile))
	if err != nil {
		return nil, &SimulationFault{Stage: "collect", Err: err}
	}

	// The artifacts carry no realized duration; leaving it zero lets the
	// caller substitute the requested one.
	bundle := &model.TelemetryBundle{
		Flows:             flows,
		HasFlowTimestamps: hasTimestamps,
	}

	sinrPath := filepath.Join(r.cfg.WorkDir, r.cfg.SINRSamplesFile)
	if _, statErr := os.Stat(sinrPath); statErr == nil {
		samples, err := ReadSINRSamplesCSV(sinrPath)
		if err != nil {
			return nil, &SimulationFault{Stage: "collect", Err: err}
		}
		bundle.Samples = samples
	}

	return bundle, nil
}
