package scenario

import (
	"time"

	"github.com/aguillonlei-alt/OPTIC-5G/model"
)

// Bounds is an axis-aligned box in local planar metres.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Topology is the immutable per-trial snapshot handed to the external
// simulator: the normalized active sites, the mask that produced them,
// the client population, and the requested duration. Each trial gets its
// own deep copy so no coordinate or mask state leaks between trials.
type Topology struct {
	Mask          model.ActivationMask
	ActiveSites   []model.Site
	InactiveCount int
	UECount       int
	Duration      time.Duration

	// UEBox is the placement region for simulated clients: the bounding
	// box of the active sites expanded by 5% plus 50 m per axis.
	UEBox Bounds
}

// TotalSites returns the size of the candidate set the mask was applied to.
func (t *Topology) TotalSites() int {
	return len(t.ActiveSites) + t.InactiveCount
}

// Builder assembles Topology snapshots from a normalized site list.
type Builder struct {
	sites []model.Site
}

// NewBuilder captures the normalized site list. The slice is copied, so
// later mutation of the caller's sites cannot contaminate built trials.
func NewBuilder(sites []model.Site) *Builder {
	cp := make([]model.Site, len(sites))
	copy(cp, sites)
	return &Builder{sites: cp}
}

// Build produces the snapshot for one trial.
func (b *Builder) Build(mask model.ActivationMask, ueCount int, duration time.Duration) *Topology {
	active, inactive := Apply(b.sites, mask)
	return &Topology{
		Mask:          mask,
		ActiveSites:   active,
		InactiveCount: inactive,
		UECount:       ueCount,
		Duration:      duration,
		UEBox:         ueBox(active),
	}
}

// ueBox expands the active-site bounding box so clients can land just
// outside the outermost sites.
func ueBox(sites []model.Site) Bounds {
	if len(sites) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: sites[0].XMeters, MaxX: sites[0].XMeters,
		MinY: sites[0].YMeters, MaxY: sites[0].YMeters,
	}
	for _, s := range sites[1:] {
		if s.XMeters < b.MinX {
			b.MinX = s.XMeters
		}
		if s.XMeters > b.MaxX {
			b.MaxX = s.XMeters
		}
		if s.YMeters < b.MinY {
			b.MinY = s.YMeters
		}
		if s.YMeters > b.MaxY {
			b.MaxY = s.YMeters
		}
	}
	padX := (b.MaxX-b.MinX)*0.05 + 50.0
	padY := (b.MaxY-b.MinY)*0.05 + 50.0
	b.MinX -= padX
	b.MaxX += padX
	b.MinY -= padY
	b.MaxY += padY
	return b
}
