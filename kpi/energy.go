package kpi

// Energy estimates total static draw in Watts for a trial:
// activeCount × perSiteWatts. The per-site figure is explicit
// configuration because the observed scenario classes differ by an order
// of magnitude (a macro cell draws ~130 W, a testbed access point 10.5 W).
func Energy(activeCount int, perSiteWatts float64) float64 {
	return float64(activeCount) * perSiteWatts
}
