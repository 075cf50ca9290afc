// Package config loads harness configuration from YAML. Everything a
// scenario class changes between studies lives here, most importantly the
// per-site static power draw, so no energy constant hides in code.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SiteDefaults are the attribute values substituted for missing or
// malformed optional CSV columns.
type SiteDefaults struct {
	TxPowerDBm   float64 `yaml:"txpower_dbm"`
	FrequencyGHz float64 `yaml:"frequency_ghz"`
	BandwidthMHz float64 `yaml:"bandwidth_mhz"`
	RadiusMeters float64 `yaml:"radius_m"`
}

// ScenarioClass groups the constants that distinguish one study setup
// from another (macro deployment vs testbed access points).
type ScenarioClass struct {
	// SiteWatts is the static draw of one active site.
	SiteWatts float64 `yaml:"site_watts"`

	Defaults SiteDefaults `yaml:"defaults"`
}

// Center is a geographic fallback projection origin.
type Center struct {
	Lon float64 `yaml:"lon"`
	Lat float64 `yaml:"lat"`
}

// Simulator describes how to invoke the external simulator binary.
type Simulator struct {
	Bin         string   `yaml:"bin"`
	Args        []string `yaml:"args"`
	WorkDir     string   `yaml:"workdir"`
	FlowStats   string   `yaml:"flow_stats"`
	SINRSamples string   `yaml:"sinr_samples"`
}

// Config is the root document.
type Config struct {
	PaddingMeters  float64                  `yaml:"padding_m"`
	FallbackCenter Center                   `yaml:"fallback_center"`
	Class          string                   `yaml:"class"`
	Classes        map[string]ScenarioClass `yaml:"classes"`
	Simulator      Simulator                `yaml:"simulator"`
}

// Default returns the configuration the study scenarios were calibrated
// with: Manila macro deployment plus the PUP campus testbed.
func Default() Config {
	return Config{
		PaddingMeters:  200.0,
		FallbackCenter: Center{Lon: 120.98, Lat: 14.59},
		Class:          "manila-macro",
		Classes: map[string]ScenarioClass{
			"manila-macro": {
				SiteWatts: 130.0,
				Defaults: SiteDefaults{
					TxPowerDBm:   20.0,
					FrequencyGHz: 3.5,
					BandwidthMHz: 100.0,
					RadiusMeters: 250.0,
				},
			},
			"pup-testbed": {
				SiteWatts: 10.5,
				Defaults: SiteDefaults{
					TxPowerDBm:   25.0,
					FrequencyGHz: 5.0,
					BandwidthMHz: 80.0,
					RadiusMeters: 120.0,
				},
			},
		},
		Simulator: Simulator{
			WorkDir: "work",
		},
	}
}

// Load reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// ClassOrDefault resolves a scenario class by name, falling back to the
// document's default class. Unknown names are an error rather than a
// silent constant.
func (c Config) ClassOrDefault(name string) (ScenarioClass, error) {
	if name == "" {
		name = c.Class
	}
	cls, ok := c.Classes[name]
	if !ok {
		return ScenarioClass{}, fmt.Errorf("config: unknown scenario class %q", name)
	}
	return cls, nil
}
