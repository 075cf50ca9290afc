package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aguillonlei-alt/OPTIC-5G/geo"
	"github.com/aguillonlei-alt/OPTIC-5G/harness"
	"github.com/aguillonlei-alt/OPTIC-5G/internal/config"
	"github.com/aguillonlei-alt/OPTIC-5G/internal/logging"
	"github.com/aguillonlei-alt/OPTIC-5G/internal/observability"
	"github.com/aguillonlei-alt/OPTIC-5G/model"
	"github.com/aguillonlei-alt/OPTIC-5G/scenario"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "optic5g",
		Short: "Scenario evaluation harness for mask-driven radio topology studies",
		Long: `optic5g evaluates one activation mask over a real-world base-station
layout: it loads and normalizes the site CSV, applies the mask, drives the
external packet-level simulator to completion, and reduces the telemetry
into the scalar KPIs the outer optimizer consumes.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("class", "", "scenario class (defaults to the configured one)")
	rootCmd.PersistentFlags().String("xy-format", "auto", "interpretation of x/y columns: auto, meters, degrees")

	rootCmd.AddCommand(
		newRunCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate one activation mask and print the result block",
		RunE:  runTrial,
	}
	cmd.Flags().String("site-file", "", "CSV with candidate site records (required)")
	cmd.Flags().String("mask", "", "activation mask as a string of 0/1 characters; empty keeps all sites on")
	cmd.Flags().Duration("duration", 40*time.Second, "simulated trial duration")
	cmd.Flags().Int("ues", 1000, "number of simulated clients")
	cmd.Flags().String("sim-bin", "", "external simulator binary (overrides config)")
	cmd.Flags().String("workdir", "", "working directory for simulator artifacts (overrides config)")
	cmd.Flags().String("flow-out", "", "write the per-flow CSV artifact to this path")
	cmd.Flags().String("db", "", "record the trial in this SQLite history database")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address for the lifetime of the trial")
	cmd.MarkFlagRequired("site-file")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the normalized, masked topology as a simulator-ready CSV",
		RunE:  runExport,
	}
	cmd.Flags().String("site-file", "", "CSV with candidate site records (required)")
	cmd.Flags().String("mask", "", "activation mask as a string of 0/1 characters")
	cmd.Flags().String("out", "", "output CSV path (required)")
	cmd.MarkFlagRequired("site-file")
	cmd.MarkFlagRequired("out")
	return cmd
}

// setup resolves config, logger, and loader shared by the subcommands.
func setup(cmd *cobra.Command) (config.Config, config.ScenarioClass, logging.Logger, *geo.Loader, error) {
	log := logging.NewFromEnv()

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, config.ScenarioClass{}, nil, nil, err
	}

	className, _ := cmd.Flags().GetString("class")
	class, err := cfg.ClassOrDefault(className)
	if err != nil {
		return config.Config{}, config.ScenarioClass{}, nil, nil, err
	}

	xyFormat := geo.FormatAuto
	switch raw, _ := cmd.Flags().GetString("xy-format"); raw {
	case "auto", "":
	case "meters":
		xyFormat = geo.FormatMeters
	case "degrees":
		xyFormat = geo.FormatDegrees
	default:
		return config.Config{}, config.ScenarioClass{}, nil, nil, fmt.Errorf("invalid --xy-format %q", raw)
	}

	loader := geo.NewLoader(geo.LoaderConfig{
		XYFormat: xyFormat,
		Defaults: geo.Defaults{
			TxPowerDBm:   class.Defaults.TxPowerDBm,
			FrequencyGHz: class.Defaults.FrequencyGHz,
			BandwidthMHz: class.Defaults.BandwidthMHz,
			RadiusMeters: class.Defaults.RadiusMeters,
		},
		FallbackCenterLon: cfg.FallbackCenter.Lon,
		FallbackCenterLat: cfg.FallbackCenter.Lat,
		Log:               log,
	})
	return cfg, class, log, loader, nil
}

func runTrial(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, class, log, loader, err := setup(cmd)
	if err != nil {
		return err
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewHarnessCollector(nil)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", addr))
	}

	maskStr, _ := cmd.Flags().GetString("mask")
	mask, err := model.ParseActivationMask(maskStr)
	if err != nil {
		return err
	}
	duration, _ := cmd.Flags().GetDuration("duration")
	ues, _ := cmd.Flags().GetInt("ues")

	simBin, _ := cmd.Flags().GetString("sim-bin")
	if simBin == "" {
		simBin = cfg.Simulator.Bin
	}
	workDir, _ := cmd.Flags().GetString("workdir")
	if workDir == "" {
		workDir = cfg.Simulator.WorkDir
	}

	runner := scenario.NewNS3Runner(scenario.NS3Config{
		BinPath:         simBin,
		ExtraArgs:       cfg.Simulator.Args,
		WorkDir:         workDir,
		FlowStatsFile:   cfg.Simulator.FlowStats,
		SINRSamplesFile: cfg.Simulator.SINRSamples,
	}, log)

	h := &harness.Harness{
		Loader:        loader,
		Runner:        runner,
		PaddingMeters: cfg.PaddingMeters,
		Collector:     collector,
		Log:           log,
	}

	result, bundle, err := h.Evaluate(ctx, harness.Params{
		SiteFile:  mustString(cmd, "site-file"),
		Mask:      mask,
		UECount:   ues,
		Duration:  duration,
		SiteWatts: class.SiteWatts,
	})
	if err != nil {
		var parseErr *geo.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("fatal startup error: %w", err)
		}
		return err
	}

	if err := harness.WriteResultBlock(os.Stdout, result); err != nil {
		return err
	}

	if flowOut, _ := cmd.Flags().GetString("flow-out"); flowOut != "" {
		if err := harness.WriteFlowArtifact(flowOut, bundle.Flows); err != nil {
			return err
		}
		log.Info(ctx, "flow artifact written", logging.String("path", flowOut))
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		store, err := harness.OpenStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		trialID, err := store.SaveTrial(ctx, result, bundle.Flows)
		if err != nil {
			return err
		}
		log.Info(ctx, "trial recorded", logging.String("db", dbPath), logging.Any("trial_id", trialID))
	}

	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, _, log, loader, err := setup(cmd)
	if err != nil {
		return err
	}

	sites, stats, err := loader.Load(ctx, mustString(cmd, "site-file"))
	if err != nil {
		return fmt.Errorf("fatal startup error: %w", err)
	}
	if stats.RowsSkipped > 0 {
		log.Warn(ctx, "rows skipped during export", logging.Int("rows_skipped", stats.RowsSkipped))
	}

	maskStr, _ := cmd.Flags().GetString("mask")
	mask, err := model.ParseActivationMask(maskStr)
	if err != nil {
		return err
	}

	normalized := geo.Normalize(sites, cfg.PaddingMeters)
	active, inactive := scenario.Apply(normalized, mask)

	out := mustString(cmd, "out")
	if err := scenario.ExportSitesCSV(out, active); err != nil {
		return err
	}
	log.Info(ctx, "topology exported",
		logging.String("path", out),
		logging.Int("active", len(active)),
		logging.Int("inactive", inactive),
	)
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
