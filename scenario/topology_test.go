package scenario

import (
	"math"
	"testing"
	"time"
)

func TestBuild_Snapshot(t *testing.T) {
	b := NewBuilder(threeSites())
	topo := b.Build(mustMask(t, "110"), 500, 40*time.Second)

	if topo.TotalSites() != 3 {
		t.Errorf("TotalSites = %d, want 3", topo.TotalSites())
	}
	if len(topo.ActiveSites) != 2 || topo.InactiveCount != 1 {
		t.Errorf("got %d active / %d inactive, want 2 / 1", len(topo.ActiveSites), topo.InactiveCount)
	}
	if topo.UECount != 500 {
		t.Errorf("UECount = %d, want 500", topo.UECount)
	}
	if topo.Duration != 40*time.Second {
		t.Errorf("Duration = %v, want 40s", topo.Duration)
	}
}

func TestBuild_UEBoxExpansion(t *testing.T) {
	topo := NewBuilder(threeSites()).Build(mustMask(t, "111"), 10, time.Second)

	// Active bbox: x [200, 700], y [200, 900].
	padX := (700.0-200.0)*0.05 + 50.0
	padY := (900.0-200.0)*0.05 + 50.0
	box := topo.UEBox
	if math.Abs(box.MinX-(200-padX)) > 1e-9 || math.Abs(box.MaxX-(700+padX)) > 1e-9 {
		t.Errorf("x bounds = [%v, %v], want [%v, %v]", box.MinX, box.MaxX, 200-padX, 700+padX)
	}
	if math.Abs(box.MinY-(200-padY)) > 1e-9 || math.Abs(box.MaxY-(900+padY)) > 1e-9 {
		t.Errorf("y bounds = [%v, %v], want [%v, %v]", box.MinY, box.MaxY, 200-padY, 900+padY)
	}
}

func TestBuild_NoActiveSitesEmptyBox(t *testing.T) {
	topo := NewBuilder(threeSites()).Build(mustMask(t, "000"), 10, time.Second)
	if topo.UEBox != (Bounds{}) {
		t.Errorf("UEBox = %+v, want zero bounds", topo.UEBox)
	}
}

func TestBuilder_SnapshotIsolation(t *testing.T) {
	sites := threeSites()
	b := NewBuilder(sites)
	sites[0].XMeters = -9999

	topo := b.Build(mustMask(t, "111"), 10, time.Second)
	if topo.ActiveSites[0].XMeters != 200 {
		t.Fatalf("builder saw caller mutation: site 0 x = %v, want 200", topo.ActiveSites[0].XMeters)
	}
}
