package model

// Site represents one candidate base station parsed from a site CSV.
// Raw positional fields keep whatever the source file contained (metres or
// degrees); XMeters/YMeters are the derived local planar coordinates and are
// the only position consumers should use after loading.
type Site struct {
	// Index is the zero-based position of the row in the source file,
	// counted over usable rows only. The activation mask is aligned to it.
	Index int

	// RawX and RawY are the positional values as read from the file,
	// before projection. RawIsDegrees records how they were interpreted.
	RawX         float64
	RawY         float64
	RawIsDegrees bool

	// XMeters and YMeters are local planar coordinates. After
	// normalization both are at least the padding margin from the origin.
	XMeters float64
	YMeters float64

	// Radio parameters. Missing or malformed source values are replaced
	// by scenario defaults at load time.
	TxPowerDBm   float64
	FrequencyGHz float64
	BandwidthMHz float64
	RadiusMeters float64
}
