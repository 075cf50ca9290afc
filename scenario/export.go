package scenario

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// siteHeader is the simulator-ready column layout. The loader recognizes
// every one of these tokens, so an exported file round-trips.
var siteHeader = []string{"x_m", "y_m", "txpower_dbm", "frequency_ghz", "bandwidth_mhz", "radius_m"}

// ExportSitesCSV writes the given sites in the column layout the external
// simulator ingests. The file is created or truncated.
func ExportSitesCSV(path string, sites []model.Site) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(siteHeader); err != nil {
		return fmt.Errorf("export sites %q: %w", path, err)
	}
	for _, s := range sites {
		rec := []string{
			formatMeters(s.XMeters),
			formatMeters(s.YMeters),
			strconv.FormatFloat(s.TxPowerDBm, 'f', -1, 64),
			strconv.FormatFloat(s.FrequencyGHz, 'f', -1, 64),
			strconv.FormatFloat(s.BandwidthMHz, 'f', -1, 64),
			strconv.FormatFloat(s.RadiusMeters, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("export sites %q: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export sites %q: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export sites %q: %w", path, err)
	}
	return nil
}

// formatMeters keeps centimetre precision, which is already below any
// placement accuracy the source data can claim.
func formatMeters(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
