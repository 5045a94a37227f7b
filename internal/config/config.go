package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all settings for the map view, populated from environment variables.
type Config struct {
	BoundaryPath string
	RecordsPaths []string

	ViewportWidth  int
	ViewportHeight int
	PriceCeiling   float64
	HitIndex       string
	FrameInterval  time.Duration
	OutputPath     string

	SelectionCacheSize int

	// HTTPAddr is empty when the health and metrics server is disabled.
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	frameInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("FRAME_INTERVAL", "16ms"))
	if err != nil || frameInterval <= 0 {
		return nil, errors.New("invalid FRAME_INTERVAL")
	}

	width, err := parsePositiveInt("VIEWPORT_WIDTH", 800)
	if err != nil {
		return nil, err
	}
	height, err := parsePositiveInt("VIEWPORT_HEIGHT", 600)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("SELECTION_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}

	ceiling, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("PRICE_CEILING", "1000000"), 64)
	if err != nil || !(ceiling > 0) {
		return nil, errors.New("invalid PRICE_CEILING")
	}

	httpAddr := ":8080"
	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		httpAddr = v
	}

	cfg := &Config{
		BoundaryPath:    sharedcfg.EnvOrDefault("BOUNDARY_PATH", "data/poland.geojson"),
		RecordsPaths:    splitList(sharedcfg.EnvOrDefault("RECORDS_PATH", "data/apartments_pl_2024_06.csv")),
		ViewportWidth:   width,
		ViewportHeight:  height,
		PriceCeiling:    ceiling,
		HitIndex:        strings.ToLower(sharedcfg.EnvOrDefault("HIT_INDEX", "linear")),
		FrameInterval:   frameInterval,
		OutputPath:      sharedcfg.EnvOrDefault("OUTPUT_PATH", "map.png"),

		SelectionCacheSize: cacheSize,

		HTTPAddr:        httpAddr,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.BoundaryPath == "" {
		return nil, errors.New("BOUNDARY_PATH is required")
	}
	if len(cfg.RecordsPaths) == 0 {
		return nil, errors.New("RECORDS_PATH is required")
	}
	if cfg.HitIndex != "linear" && cfg.HitIndex != "quadtree" {
		return nil, fmt.Errorf("HIT_INDEX must be linear or quadtree, got %q", cfg.HitIndex)
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
