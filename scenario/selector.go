package scenario

import "github.com/aguillonlei-alt/OPTIC-5G/model"

// Apply partitions sites into the active subset and a count of the
// excluded sites, according to the activation mask. A site is excluded
// only when it falls within the mask's bounds and the mask bit is off;
// every index beyond the mask length stays active, and an empty mask
// keeps the full topology. The input is never modified and identical
// inputs always produce identical output, which the outer optimizer
// relies on when re-evaluating a mask.
func Apply(sites []model.Site, mask model.ActivationMask) (active []model.Site, inactive int) {
	active = make([]model.Site, 0, len(sites))
	for i, s := range sites {
		if !mask.Active(i) {
			inactive++
			continue
		}
		active = append(active, s)
	}
	return active, inactive
}
