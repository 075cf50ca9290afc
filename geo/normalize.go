package geo

import "github.com/aguillonlei-alt/OPTIC-5G/model"

// DefaultPaddingMeters is the margin kept between the bounding box of the
// normalized topology and the origin. Simulators prefer strictly positive
// coordinates.
const DefaultPaddingMeters = 200.0

// Normalize shifts every site so that min(x) and min(y) both equal the
// padding margin, preserving relative geometry. It returns a new slice and
// leaves the input untouched. Applying it twice is a no-op; an empty input
// yields an empty output.
func Normalize(sites []model.Site, paddingMeters float64) []model.Site {
	out := make([]model.Site, len(sites))
	copy(out, sites)
	if len(out) == 0 {
		return out
	}

	minX, minY := out[0].XMeters, out[0].YMeters
	for _, site := range out[1:] {
		if site.XMeters < minX {
			minX = site.XMeters
		}
		if site.YMeters < minY {
			minY = site.YMeters
		}
	}

	for i := range out {
		out[i].XMeters = out[i].XMeters - minX + paddingMeters
		out[i].YMeters = out[i].YMeters - minY + paddingMeters
	}
	return out
}
