package geo

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aguillonlei-alt/OPTIC-5G/internal/logging"
	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// ParseError reports a fatal loader failure: an unreadable file or a file
// from which no usable site rows survived. Row-level problems never
// surface as ParseError; they are skipped and counted instead.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load sites %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load sites %q: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CoordFormat declares how a coordinate pair should be interpreted,
// overriding the magnitude heuristic.
type CoordFormat int

const (
	// FormatAuto falls back to the magnitude heuristic per row:
	// |lat| ≤ 90 and |lon| ≤ 180 reads as degrees.
	FormatAuto CoordFormat = iota
	// FormatMeters forces planar metres.
	FormatMeters
	// FormatDegrees forces geographic degrees (x=lon, y=lat).
	FormatDegrees
)

// Defaults are the attribute values substituted when a row's optional
// columns are missing or malformed.
type Defaults struct {
	TxPowerDBm   float64
	FrequencyGHz float64
	BandwidthMHz float64
	RadiusMeters float64
}

// StandardDefaults returns the attribute defaults the study scenarios
// were calibrated with.
func StandardDefaults() Defaults {
	return Defaults{
		TxPowerDBm:   20.0,
		FrequencyGHz: 3.5,
		BandwidthMHz: 100.0,
		RadiusMeters: 250.0,
	}
}

// LoaderConfig controls site ingestion.
type LoaderConfig struct {
	// XYFormat governs rows read through the x/y column pair. The
	// lon/lat pair is always degrees.
	XYFormat CoordFormat

	Defaults Defaults

	// FallbackCenter is the projection origin used when a geographic
	// pair exists in the header but no row parses. Lon then lat.
	FallbackCenterLon float64
	FallbackCenterLat float64

	Log logging.Logger
}

// LoadStats describes what the loader accepted, skipped, and guessed.
type LoadStats struct {
	RowsRead       int
	RowsSkipped    int
	HeuristicFired int // rows where the magnitude heuristic decided degrees vs metres
}

// Loader parses heterogeneous site CSVs into an ordered Site sequence.
type Loader struct {
	cfg LoaderConfig
	log logging.Logger
}

// NewLoader builds a Loader. A zero-value config means auto format
// detection, standard attribute defaults, and no fallback center.
func NewLoader(cfg LoaderConfig) *Loader {
	if cfg.Defaults == (Defaults{}) {
		cfg.Defaults = StandardDefaults()
	}
	log := cfg.Log
	if log == nil {
		log = logging.Noop()
	}
	return &Loader{cfg: cfg, log: log}
}

// columns maps the recognized header tokens onto field indices. -1 means
// the column is absent.
type columns struct {
	x, y     int
	lon, lat int
	tx       int
	freq     int
	bw       int
	radius   int
}

func detectColumns(header []string) columns {
	c := columns{x: -1, y: -1, lon: -1, lat: -1, tx: -1, freq: -1, bw: -1, radius: -1}
	for i, raw := range header {
		switch strings.ToLower(cleanField(raw)) {
		case "x", "x_m", "x_meters":
			c.x = i
		case "y", "y_m", "y_meters":
			c.y = i
		case "lon", "longitude":
			c.lon = i
		case "lat", "latitude":
			c.lat = i
		case "txpower_dbm", "tx_power_dbm", "txpower", "tx_power":
			c.tx = i
		case "frequency_ghz", "frequency", "freq_ghz":
			c.freq = i
		case "bandwidth_mhz", "bandwidth", "bw_mhz":
			c.bw = i
		case "radius_m", "radius":
			c.radius = i
		}
	}
	return c
}

func (c columns) hasXY() bool     { return c.x >= 0 && c.y >= 0 }
func (c columns) hasLonLat() bool { return c.lon >= 0 && c.lat >= 0 }

// cleanField trims whitespace and surrounding quotes from a CSV token.
func cleanField(s string) string {
	return strings.Trim(s, " \t\r\n\"'")
}

func parseFloat(fields []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(fields) {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleanField(fields[idx]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Load reads the site file, projects geographic rows into local metres and
// returns the ordered site list together with ingestion stats. It fails
// only when the file cannot be opened, has no header, or yields zero
// usable rows.
func (l *Loader) Load(ctx context.Context, path string) ([]model.Site, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, &ParseError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, LoadStats{}, &ParseError{Path: path, Reason: "cannot read header", Err: err}
	}
	cols := detectColumns(header)
	if !cols.hasXY() && !cols.hasLonLat() {
		return nil, LoadStats{}, &ParseError{Path: path, Reason: "no coordinate columns in header"}
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Structurally broken line; treated like any other bad row.
			rows = append(rows, nil)
			continue
		}
		empty := true
		for _, field := range rec {
			if cleanField(field) != "" {
				empty = false
				break
			}
		}
		if !empty {
			rows = append(rows, rec)
		}
	}

	proj := l.projectionOrigin(cols, rows)

	var stats LoadStats
	sites := make([]model.Site, 0, len(rows))
	for _, rec := range rows {
		stats.RowsRead++
		site, ok := l.parseRow(ctx, cols, rec, proj, &stats)
		if !ok {
			stats.RowsSkipped++
			continue
		}
		site.Index = len(sites)
		sites = append(sites, site)
	}

	if len(sites) == 0 {
		return nil, stats, &ParseError{Path: path, Reason: "no sites parsed"}
	}

	l.log.Info(ctx, "sites loaded",
		logging.String("path", path),
		logging.Int("sites", len(sites)),
		logging.Int("rows_skipped", stats.RowsSkipped),
		logging.Int("heuristic_fired", stats.HeuristicFired),
	)
	return sites, stats, nil
}

// projectionOrigin computes the mean of all parseable geographic pairs.
// The x/y pair participates too when the format allows degrees, so files
// that smuggle lon/lat through x/y columns still centre correctly.
func (l *Loader) projectionOrigin(cols columns, rows [][]string) Projection {
	var sumLon, sumLat float64
	count := 0
	for _, rec := range rows {
		if cols.hasLonLat() {
			lon, okLon := parseFloat(rec, cols.lon)
			lat, okLat := parseFloat(rec, cols.lat)
			if okLon && okLat {
				sumLon += lon
				sumLat += lat
				count++
				continue
			}
		}
		if cols.hasXY() && l.cfg.XYFormat != FormatMeters {
			xv, okX := parseFloat(rec, cols.x)
			yv, okY := parseFloat(rec, cols.y)
			if okX && okY && looksLikeDegrees(xv, yv) {
				sumLon += xv
				sumLat += yv
				count++
			}
		}
	}
	if count == 0 {
		return NewProjection(l.cfg.FallbackCenterLon, l.cfg.FallbackCenterLat)
	}
	return NewProjection(sumLon/float64(count), sumLat/float64(count))
}

func looksLikeDegrees(x, y float64) bool {
	return math.Abs(y) <= 90.0 && math.Abs(x) <= 180.0
}

// parseRow turns one record into a Site. It prefers the x/y pair, falls
// back to lon/lat, and drops the row when neither parses. Attribute
// columns never cause a drop.
func (l *Loader) parseRow(ctx context.Context, cols columns, rec []string, proj Projection, stats *LoadStats) (model.Site, bool) {
	site := model.Site{
		TxPowerDBm:   l.cfg.Defaults.TxPowerDBm,
		FrequencyGHz: l.cfg.Defaults.FrequencyGHz,
		BandwidthMHz: l.cfg.Defaults.BandwidthMHz,
		RadiusMeters: l.cfg.Defaults.RadiusMeters,
	}

	parsed := false
	if cols.hasXY() {
		xv, okX := parseFloat(rec, cols.x)
		yv, okY := parseFloat(rec, cols.y)
		if okX && okY {
			site.RawX, site.RawY = xv, yv
			degrees := false
			switch l.cfg.XYFormat {
			case FormatDegrees:
				degrees = true
			case FormatMeters:
				degrees = false
			default:
				degrees = looksLikeDegrees(xv, yv)
				if degrees {
					// x/y columns normally carry metres; reading them as
					// degrees is the auditable surprise.
					stats.HeuristicFired++
					l.log.Warn(ctx, "x/y values in degree range, projecting as lon/lat",
						logging.Any("x", xv),
						logging.Any("y", yv),
					)
				}
			}
			if degrees {
				site.RawIsDegrees = true
				site.XMeters, site.YMeters = proj.ToMeters(xv, yv)
			} else {
				site.XMeters, site.YMeters = xv, yv
			}
			parsed = true
		}
	}
	if !parsed && cols.hasLonLat() {
		lon, okLon := parseFloat(rec, cols.lon)
		lat, okLat := parseFloat(rec, cols.lat)
		if okLon && okLat {
			site.RawX, site.RawY = lon, lat
			site.RawIsDegrees = true
			site.XMeters, site.YMeters = proj.ToMeters(lon, lat)
			parsed = true
		}
	}
	if !parsed {
		return model.Site{}, false
	}

	if v, ok := parseFloat(rec, cols.tx); ok {
		site.TxPowerDBm = v
	}
	if v, ok := parseFloat(rec, cols.freq); ok {
		site.FrequencyGHz = v
	}
	if v, ok := parseFloat(rec, cols.bw); ok {
		site.BandwidthMHz = v
	}
	if v, ok := parseFloat(rec, cols.radius); ok {
		site.RadiusMeters = v
	}
	return site, true
}
