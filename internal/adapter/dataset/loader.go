// Package dataset loads apartment listings from the monthly snapshot files.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
)

var (
	// ErrUnknownBucket is returned for a file whose month is not one of domain.Buckets.
	ErrUnknownBucket = errors.New("file month is not a known bucket")
	// ErrUnsupportedFormat is returned for files other than .csv and .json.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

var bucketPattern = regexp.MustCompile(`(\d{4})_(\d{2})`)

// BucketFromPath derives the bucket label from a snapshot filename such as
// apartments_pl_2024_03.csv.
func BucketFromPath(path string) (string, error) {
	m := bucketPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", fmt.Errorf("%w: no YYYY_MM in %q", ErrUnknownBucket, filepath.Base(path))
	}
	label := m[1] + "-" + m[2]
	if domain.BucketIndex(label) < 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownBucket, label)
	}
	return label, nil
}

// Loader reads snapshot files. Rows that cannot be placed on the map are skipped and
// counted, not treated as errors.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger.With("component", "dataset_loader")}
}

// LoadAll reads every path concurrently and returns the records in path order, each
// file's rows in file order.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]domain.Record, error) {
	parts := make([][]domain.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := l.LoadFile(path)
			if err != nil {
				return err
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]domain.Record, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// LoadFile reads one .csv or .json snapshot.
func (l *Loader) LoadFile(path string) ([]domain.Record, error) {
	start := time.Now()
	bucket, err := BucketFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer f.Close()

	var (
		recs    []domain.Record
		skipped int
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		recs, skipped, err = ReadCSV(f, bucket)
	case ".json":
		recs, skipped, err = ReadJSON(f, bucket)
	default:
		return nil, fmt.Errorf("load %s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l.logger.Info("loaded records",
		"path", path,
		"bucket", bucket,
		"count", len(recs),
		"skipped", skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return recs, nil
}
