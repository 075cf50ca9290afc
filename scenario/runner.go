package scenario

import (
	"context"
	"fmt"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// Runner is the boundary to the external wireless simulator. Run blocks
// until the simulator completes and returns the one-shot telemetry bundle
// for the trial. A failed or hung simulation is surfaced as a
// SimulationFault and is not retried here; retry policy belongs to the
// outer optimization loop, where the cost of a long simulation can be
// weighed.
type Runner interface {
	Run(ctx context.Context, topo *Topology) (*model.TelemetryBundle, error)
}

// SimulationFault wraps any failure of the external simulator to produce
// telemetry: launch errors, non-zero exits, missing or unreadable output
// artifacts.
type SimulationFault struct {
	Stage string // "launch", "execute", "collect"
	Err   error
}

func (e *SimulationFault) Error() string {
	return fmt.Sprintf("external simulation fault (%s): %v", e.Stage, e.Err)
}

func (e *SimulationFault) Unwrap() error { return e.Err }
