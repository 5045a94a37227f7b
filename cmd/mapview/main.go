// Command mapview drives the apartment price map without a browser. It loads the
// boundary and listing snapshots, reads JSON-lines input events from stdin, writes one
// JSON line per frame to stdout, and saves the last frame as a PNG.
//
// Usage:
//
//	printf '%s\n' '{"type":"wheel","deltaY":-300,"x":400,"y":300}' '{"type":"pointer","x":410,"y":295}' |
//	  BOUNDARY_PATH=data/poland.geojson RECORDS_PATH=data/apartments_pl_2024_06.csv go run ./cmd/mapview
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/apartment-price-map/internal/adapter/dataset"
	"github.com/couchcryptid/apartment-price-map/internal/adapter/geojson"
	httpadapter "github.com/couchcryptid/apartment-price-map/internal/adapter/http"
	"github.com/couchcryptid/apartment-price-map/internal/config"
	"github.com/couchcryptid/apartment-price-map/internal/domain"
	"github.com/couchcryptid/apartment-price-map/internal/geo"
	"github.com/couchcryptid/apartment-price-map/internal/interaction"
	"github.com/couchcryptid/apartment-price-map/internal/observability"
	"github.com/couchcryptid/apartment-price-map/internal/render"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, metrics, logger); err != nil {
		logger.Error("mapview failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, metrics *observability.Metrics, logger *slog.Logger) error {
	boundary, err := geojson.LoadBoundary(cfg.BoundaryPath)
	if err != nil {
		return err
	}
	records, err := dataset.NewLoader(logger).LoadAll(ctx, cfg.RecordsPaths)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "rings", len(boundary.Rings()), "records", len(records))

	style := render.DefaultStyle()
	style.PriceCeiling = cfg.PriceCeiling
	renderer := render.New(geo.NewMercator(), style, logger)

	zoom := geo.DefaultZoomConfig()
	zoom.Viewport = geo.Size{W: float64(cfg.ViewportWidth), H: float64(cfg.ViewportHeight)}
	surface := image.NewRGBA(image.Rect(0, 0, cfg.ViewportWidth, cfg.ViewportHeight))

	ctrl, err := interaction.NewController(renderer, interaction.Options{
		Boundary:  boundary,
		Records:   records,
		Surface:   surface,
		Zoom:      zoom,
		Params:    domain.DefaultFilterParams(),
		HitTester: interaction.NewHitTester(cfg.HitIndex),

		SelectionCacheSize: cfg.SelectionCacheSize,
	}, metrics, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	onFrame := func(f interaction.Frame) {
		if err := enc.Encode(newFrameLine(f)); err != nil {
			logger.Warn("write frame failed", "error", err)
		}
	}
	session := interaction.NewSession(ctrl, clockwork.NewRealClock(), cfg.FrameInterval, onFrame, metrics, logger)

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, session, func() any { return session.Status() }, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	events := make(chan interaction.Event)
	go readEvents(ctx, in, events, logger)

	if err := session.Run(ctx, events); err != nil {
		logger.Error("session error", "error", err)
	}
	logger.Info("shutting down")

	if err := writePNG(cfg.OutputPath, surface); err != nil {
		logger.Error("write output failed", "error", err, "path", cfg.OutputPath)
	} else {
		logger.Info("wrote final frame", "path", cfg.OutputPath)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// readEvents decodes stdin lines into events and closes events at end of input.
// Malformed lines are logged and dropped.
func readEvents(ctx context.Context, in io.Reader, events chan<- interaction.Event, logger *slog.Logger) {
	defer close(events)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		ev, err := parseEvent(line)
		if err != nil {
			logger.Warn("skipping input line", "error", err)
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		logger.Error("read input failed", "error", err)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
