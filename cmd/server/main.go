package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/su14iman/yt-hls/internal/platform/config"
	"github.com/su14iman/yt-hls/internal/platform/cors"
	"github.com/su14iman/yt-hls/internal/platform/logger"
	"github.com/su14iman/yt-hls/internal/platform/metrics"
	"github.com/su14iman/yt-hls/internal/resolver"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8000")
	ytdlpPath := config.GetEnv("YTDLP_PATH", "yt-dlp")
	probeTimeout := config.GetEnvDuration("PROBE_TIMEOUT", resolver.DefaultProbeTimeout)
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")

	log := logger.New(logLevel, logFormat)

	prober := resolver.NewYtDlp(ytdlpPath, probeTimeout)
	svc := resolver.NewService(prober)
	met := metrics.New()
	h := resolver.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Use(cors.Middleware)
	r.Get("/", h.Health)
	r.Get("/hls_url", h.HLSURL)
	r.Get("/playlist.m3u", h.Playlist)
	r.Get("/redirect.m3u8", h.Redirect)
	r.Get("/metrics", met.Handler().ServeHTTP)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"ytdlp_path", ytdlpPath,
		"probe_timeout", probeTimeout.String(),
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
