// Command sseserver runs a standalone broadcast hub: it loads configuration
// from an optional YAML file, wires the subscriber endpoint, the admin
// dashboard, health checks, and Prometheus metrics into a chi router, and
// serves HTTP until terminated.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mroth/sseserver"
	"github.com/mroth/sseserver/admin"
	"github.com/mroth/sseserver/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	addr := flag.String("addr", ":8001", "address to bind the HTTP listener on")
	flag.Parse()

	opts := []sseserver.ServerOption{}
	if *configPath != "" {
		cfg, err := sseserver.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("sseserver: failed to load config %s: %v", *configPath, err)
		}
		opts = append(opts, sseserver.WithConfig(cfg))
	}

	s, err := sseserver.NewServer(opts...)
	if err != nil {
		log.Fatalf("sseserver: failed to construct server: %v", err)
	}
	defer s.Shutdown()

	metrics.RegisterDefault()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Mount("/sse/", s)
	r.Mount("/admin/", admin.Handler(s))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", s.HealthHandler)
	r.Get("/readyz", s.ReadyHandler)

	if v := os.Getenv("PORT"); v != "" {
		*addr = ":" + v
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		// Deliberately no WriteTimeout: SSE subscriber connections are
		// long-lived by design and would be killed mid-stream by one.
		IdleTimeout: 120 * time.Second,
	}

	log.Printf("sseserver: listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
