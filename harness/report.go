package harness

import (
	"fmt"
	"io"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// WriteResultBlock prints the fixed-order result block the outer
// optimizer scrapes. The layout and labels are a stable contract; do not
// reorder or reword the lines.
func WriteResultBlock(w io.Writer, res model.TrialResult) error {
	_, err := fmt.Fprintf(w,
		"-------------------------------------------------\n"+
			"OPTIMIZATION RESULTS:\n"+
			"Active Towers: %d\n"+
			"Energy Score (Lower is better): %g Watts (Est)\n"+
			"System Throughput (Higher is better): %g Mbps\n"+
			"Average SINR (Higher is better): %g dB\n"+
			"Packet Loss Ratio (Lower is better): %g %%\n"+
			"-------------------------------------------------\n",
		res.ActiveSites,
		res.EnergyWatts,
		res.ThroughputMbps,
		res.AvgSINRdB,
		res.PacketLossPct,
	)
	return err
}
