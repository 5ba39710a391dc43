package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signalsfoundry/passtrack/core"
	"github.com/signalsfoundry/passtrack/internal/config"
	"github.com/signalsfoundry/passtrack/internal/logging"
	"github.com/signalsfoundry/passtrack/internal/observability"
	"github.com/signalsfoundry/passtrack/internal/report"
	"github.com/signalsfoundry/passtrack/internal/tle"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON config file (defaults apply when empty)")
	outDir := flag.String("out", ".", "Directory the report files are written to")
	duration := flag.Duration("duration", 0, "Analysis window length (overrides the config when positive)")
	step := flag.Duration("step", 0, "Sampling interval (overrides the config when positive)")
	startStr := flag.String("start", "", "Window start as RFC 3339 (defaults to now)")
	offline := flag.Bool("offline", false, "Skip Celestrak and use cached or simulated elements only")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatal(ctx, log, "failed to load config", err)
		}
		cfg = loaded
	}
	if *duration > 0 {
		cfg.Sampling.DurationHours = duration.Hours()
	}
	if *step > 0 {
		cfg.Sampling.StepSeconds = step.Seconds()
	}
	if *startStr != "" {
		start, err := time.Parse(time.RFC3339, *startStr)
		if err != nil {
			fatal(ctx, log, "invalid -start", err)
		}
		cfg.Sampling.Start = start
	}
	if *offline {
		cfg.TLE.Offline = true
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		fatal(ctx, log, "failed to initialise tracing", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	resolver := &tle.Resolver{
		Cache: &tle.Cache{Dir: cfg.TLE.CacheDir, MaxAge: cfg.CacheMaxAge()},
		Log:   log,
	}
	if !cfg.TLE.Offline {
		resolver.Fetcher = &tle.Client{Log: log}
	}

	window := cfg.Window(time.Now())
	fmt.Printf("Analyzing %d satellites over %s from %s (step %s)\n",
		len(cfg.Satellites), window.End.Sub(window.Start), window.Start.Format(time.RFC3339), window.Step)

	targets := make([]core.Target, 0, len(cfg.Satellites))
	for _, entry := range cfg.Satellites {
		elements, source := resolver.Resolve(ctx, entry)
		fmt.Printf("  %-14s NORAD %-6d elements from %s\n", entry.Name, entry.NoradID, source)

		target := core.Target{Entry: entry, Elements: elements}
		if prop, err := core.NewTLEPropagator(elements); err == nil {
			target.Propagator = prop
		} else {
			log.Warn(ctx, "unusable element set", logging.String("satellite", entry.Name), logging.String("error", err.Error()))
		}
		targets = append(targets, target)
	}

	analyzer := &core.Analyzer{
		Observer: cfg.Observer,
		Window:   window,
		Params:   cfg.Signal,
		Log:      log,
	}

	results, err := analyzer.Run(ctx, targets)
	if err != nil {
		fatal(ctx, log, "analysis failed", err)
	}

	ds := report.Dataset{
		GeneratedAt: time.Now().UTC(),
		Observer:    cfg.Observer,
		Params:      cfg.Signal,
		Window:      window,
		Results:     results,
	}

	if err := writeReports(*outDir, ds); err != nil {
		fatal(ctx, log, "failed to write reports", err)
	}

	for _, res := range results {
		if res.Error != "" {
			fmt.Printf("  %-14s FAILED: %s\n", res.Satellite.Name, res.Error)
			continue
		}
		visible := 0
		for _, s := range res.Trajectory.Samples {
			if s.Visible {
				visible++
			}
		}
		fmt.Printf("  %-14s %d samples, %d passes, %s visible\n",
			res.Satellite.Name,
			len(res.Trajectory.Samples),
			len(res.Passes),
			time.Duration(visible)*window.Step)
	}
}

func writeReports(dir string, ds report.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	start, end := ds.Window.Start, ds.Window.End

	jsonPath := filepath.Join(dir, report.JSONFilename(start, end))
	if err := writeFile(jsonPath, func(f *os.File) error { return report.WriteJSON(f, ds) }); err != nil {
		return err
	}
	fmt.Printf("Dataset written to %s\n", jsonPath)

	for _, res := range ds.Results {
		if res.Error != "" {
			continue
		}
		csvPath := filepath.Join(dir, report.CSVFilename(res.Satellite.Name, start, end))
		if err := writeFile(csvPath, func(f *os.File) error { return report.WriteCSV(f, res) }); err != nil {
			return err
		}
	}

	mdPath := filepath.Join(dir, report.MarkdownFilename(start, end))
	if err := writeFile(mdPath, func(f *os.File) error { return report.WriteMarkdown(f, ds) }); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", mdPath)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fatal(ctx context.Context, log logging.Logger, msg string, err error) {
	log.Error(ctx, msg, logging.String("error", err.Error()))
	os.Exit(1)
}
