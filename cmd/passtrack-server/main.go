package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/passtrack/catalog"
	"github.com/signalsfoundry/passtrack/internal/api"
	"github.com/signalsfoundry/passtrack/internal/config"
	"github.com/signalsfoundry/passtrack/internal/logging"
	"github.com/signalsfoundry/passtrack/internal/observability"
	"github.com/signalsfoundry/passtrack/internal/tle"
)

func main() {
	addr := flag.String("addr", ":8080", "TCP address the HTTP API listens on")
	configPath := flag.String("config", "", "Path to a JSON config file (defaults apply when empty)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Error(ctx, "failed to load config", logging.String("path", *configPath), logging.String("error", err.Error()))
			os.Exit(1)
		}
		cfg = loaded
	}

	collector, err := observability.NewAnalysisCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	cat := catalog.New()
	for _, entry := range cfg.Satellites {
		if err := cat.Register(entry); err != nil {
			log.Error(ctx, "failed to register satellite", logging.String("satellite", entry.Name), logging.String("error", err.Error()))
			os.Exit(1)
		}
	}

	unsubscribe := cat.Subscribe(func(event catalog.Event) {
		if event.Type != catalog.EventElementsUpdated {
			return
		}
		log.Info(ctx, "orbital elements updated",
			logging.String("satellite", event.Satellite.Name),
			logging.Int("norad_id", int(event.Satellite.NoradID)))
	})
	defer unsubscribe()

	resolver := &tle.Resolver{
		Cache: &tle.Cache{Dir: cfg.TLE.CacheDir, MaxAge: cfg.CacheMaxAge()},
		Log:   log,
	}
	if !cfg.TLE.Offline {
		resolver.Fetcher = &tle.Client{Log: log}
	}

	server := api.NewServer(cfg, cat, resolver, collector, log)

	httpSrv := &http.Server{
		Addr:    *addr,
		Handler: server,
	}

	log.Info(ctx, "starting pass analysis API",
		logging.String("addr", *addr),
		logging.Int("satellites", len(cfg.Satellites)))
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server exited", logging.String("error", err.Error()))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down pass analysis API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}
