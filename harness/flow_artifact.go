package harness

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// WriteFlowArtifact writes the structured per-flow CSV for offline
// analysis: identity, endpoints, counters, and the derived per-flow
// throughput, mean delay, and mean jitter. Flows without a positive
// active span report zero throughput, consistent with the aggregator.
func WriteFlowArtifact(path string, flows []model.FlowRecord) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"flowId", "srcAddr", "dstAddr",
		"txBytes", "rxBytes", "txPackets", "rxPackets",
		"throughput_mbps", "delay_s", "jitter_s",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("flow artifact %q: %w", path, err)
	}

	for _, f := range flows {
		throughput := 0.0
		if span := f.LastRxSeconds - f.FirstTxSeconds; span > 0 && f.RxPackets > 0 {
			throughput = float64(f.RxBytes) * 8.0 / (span * 1e6)
		}
		rec := []string{
			strconv.FormatUint(uint64(f.FlowID), 10),
			f.SrcAddr,
			f.DstAddr,
			strconv.FormatUint(f.TxBytes, 10),
			strconv.FormatUint(f.RxBytes, 10),
			strconv.FormatUint(f.TxPackets, 10),
			strconv.FormatUint(f.RxPackets, 10),
			strconv.FormatFloat(throughput, 'g', -1, 64),
			strconv.FormatFloat(f.MeanDelaySeconds(), 'g', -1, 64),
			strconv.FormatFloat(f.MeanJitterSeconds(), 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("flow artifact %q: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flow artifact %q: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("flow artifact %q: %w", path, err)
	}
	return nil
}
