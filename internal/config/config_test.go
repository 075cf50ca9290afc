package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.PaddingMeters != 200.0 {
		t.Errorf("PaddingMeters = %v, want 200", cfg.PaddingMeters)
	}
	if cfg.Class != "manila-macro" {
		t.Errorf("Class = %q, want manila-macro", cfg.Class)
	}

	macro, err := cfg.ClassOrDefault("")
	if err != nil {
		t.Fatalf("ClassOrDefault returned error: %v", err)
	}
	if macro.SiteWatts != 130.0 {
		t.Errorf("macro SiteWatts = %v, want 130", macro.SiteWatts)
	}
	if macro.Defaults.TxPowerDBm != 20.0 || macro.Defaults.FrequencyGHz != 3.5 {
		t.Errorf("macro defaults = %+v", macro.Defaults)
	}

	testbed, err := cfg.ClassOrDefault("pup-testbed")
	if err != nil {
		t.Fatalf("ClassOrDefault returned error: %v", err)
	}
	if testbed.SiteWatts != 10.5 {
		t.Errorf("testbed SiteWatts = %v, want 10.5", testbed.SiteWatts)
	}
}

func TestClassOrDefault_UnknownIsError(t *testing.T) {
	if _, err := Default().ClassOrDefault("lunar-base"); err == nil {
		t.Fatalf("expected error for unknown class")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PaddingMeters != Default().PaddingMeters {
		t.Errorf("PaddingMeters = %v, want defaults", cfg.PaddingMeters)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harness.yaml")
	doc := `
padding_m: 150
class: pup-testbed
simulator:
  bin: /opt/ns3/scratch/trial
  workdir: /tmp/trials
  args: ["--tracing=true"]
classes:
  pup-testbed:
    site_watts: 11.0
    defaults:
      txpower_dbm: 24
      frequency_ghz: 5.0
      bandwidth_mhz: 80
      radius_m: 120
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PaddingMeters != 150 {
		t.Errorf("PaddingMeters = %v, want 150", cfg.PaddingMeters)
	}
	if cfg.Simulator.Bin != "/opt/ns3/scratch/trial" {
		t.Errorf("Simulator.Bin = %q", cfg.Simulator.Bin)
	}
	if len(cfg.Simulator.Args) != 1 || cfg.Simulator.Args[0] != "--tracing=true" {
		t.Errorf("Simulator.Args = %v", cfg.Simulator.Args)
	}

	cls, err := cfg.ClassOrDefault("")
	if err != nil {
		t.Fatalf("ClassOrDefault returned error: %v", err)
	}
	if cls.SiteWatts != 11.0 {
		t.Errorf("SiteWatts = %v, want overridden 11", cls.SiteWatts)
	}
	if cls.Defaults.TxPowerDBm != 24 {
		t.Errorf("TxPowerDBm = %v, want 24", cls.Defaults.TxPowerDBm)
	}
}

func TestLoad_MissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
