package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// ReadFlowStatsCSV parses the flow-monitor artifact the external simulator
// writes. Header tokens are matched case-insensitively; a row that cannot
// be parsed fails the whole read because a partial flow table would skew
// every trial KPI.
//
// Recognized columns: flowid, srcaddr, dstaddr, txbytes, rxbytes,
// txpackets, rxpackets, firsttx_s, lastrx_s, delaysum_s, jittersum_s.
// The second return reports whether the firsttx_s/lastrx_s pair was
// present; it decides which throughput convention the aggregation uses.
func ReadFlowStatsCSV(path string) ([]model.FlowRecord, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("flow stats %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, false, fmt.Errorf("flow stats %q: read header: %w", path, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	required := []string{"flowid", "txbytes", "rxbytes", "txpackets", "rxpackets"}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, false, fmt.Errorf("flow stats %q: missing column %q", path, col)
		}
	}
	_, hasFirstTx := idx["firsttx_s"]
	_, hasLastRx := idx["lastrx_s"]
	hasTimestamps := hasFirstTx && hasLastRx

	var flows []model.FlowRecord
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("flow stats %q: line %d: %w", path, line+1, err)
		}
		line++

		fr := model.FlowRecord{
			SrcAddr: fieldString(rec, idx, "srcaddr"),
			DstAddr: fieldString(rec, idx, "dstaddr"),
		}
		id, err := fieldUint(rec, idx, "flowid")
		if err != nil {
			return nil, false, fmt.Errorf("flow stats %q: line %d: %w", path, line, err)
		}
		fr.FlowID = uint32(id)

		counters := []struct {
			col string
			dst *uint64
		}{
			{"txbytes", &fr.TxBytes},
			{"rxbytes", &fr.RxBytes},
			{"txpackets", &fr.TxPackets},
			{"rxpackets", &fr.RxPackets},
		}
		for _, c := range counters {
			v, err := fieldUint(rec, idx, c.col)
			if err != nil {
				return nil, false, fmt.Errorf("flow stats %q: line %d: %w", path, line, err)
			}
			*c.dst = v
		}

		// Timestamp and sum columns are optional; their absence is
		// surfaced through hasTimestamps so the aggregation switches to
		// the nominal-duration convention.
		fr.FirstTxSeconds, _ = fieldFloat(rec, idx, "firsttx_s")
		fr.LastRxSeconds, _ = fieldFloat(rec, idx, "lastrx_s")
		fr.DelaySumSeconds, _ = fieldFloat(rec, idx, "delaysum_s")
		fr.JitterSumSeconds, _ = fieldFloat(rec, idx, "jittersum_s")

		flows = append(flows, fr)
	}
	return flows, hasTimestamps, nil
}

// ReadSINRSamplesCSV parses the optional per-reception SINR trace. The
// header fixes the domain for the whole file: a "sinr_db" column reads as
// decibel samples, a "sinr_linear" column as linear ratios. A file
// offering both is rejected because the aggregator must never see mixed
// domains from one source.
func ReadSINRSamplesCSV(path string) ([]model.SINRSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sinr samples %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("sinr samples %q: read header: %w", path, err)
	}

	col := -1
	domain := model.SINRDomainDB
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "sinr_db":
			if col >= 0 {
				return nil, fmt.Errorf("sinr samples %q: both sinr_db and sinr_linear present", path)
			}
			col = i
			domain = model.SINRDomainDB
		case "sinr_linear":
			if col >= 0 {
				return nil, fmt.Errorf("sinr samples %q: both sinr_db and sinr_linear present", path)
			}
			col = i
			domain = model.SINRDomainLinear
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("sinr samples %q: no sinr_db or sinr_linear column", path)
	}

	var samples []model.SINRSample
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sinr samples %q: line %d: %w", path, line+1, err)
		}
		line++
		if col >= len(rec) {
			return nil, fmt.Errorf("sinr samples %q: line %d: short row", path, line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("sinr samples %q: line %d: %w", path, line, err)
		}
		samples = append(samples, model.SINRSample{Value: v, Domain: domain})
	}
	return samples, nil
}

func fieldString(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func fieldUint(rec []string, idx map[string]int, col string) (uint64, error) {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return 0, fmt.Errorf("missing %s", col)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(rec[i]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", col, err)
	}
	return v, nil
}

func fieldFloat(rec []string, idx map[string]int, col string) (float64, bool) {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
