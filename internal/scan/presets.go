package scan

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultRetryDelay is the pause between preset fetch attempts.
	DefaultRetryDelay = 500 * time.Millisecond
	// DefaultMaxRetries bounds a fetch cycle to 1 initial attempt plus this many retries.
	DefaultMaxRetries = 3
)

// ErrEmptyPresets marks an attempt that succeeded but produced no usable tags.
var ErrEmptyPresets = errors.New("empty or invalid tags received")

// TagSource returns the raw `tags` array from the preset endpoint.
type TagSource interface {
	GenerateTags(ctx context.Context) ([]any, error)
}

// PresetOrigin tells where a preset list came from.
type PresetOrigin string

const (
	OriginRemote   PresetOrigin = "remote"
	OriginFallback PresetOrigin = "fallback"
)

// FetchResult is the outcome of one fetch cycle.
type FetchResult struct {
	Presets  []string
	Origin   PresetOrigin
	Attempts int
	LastErr  error
}

// Fetcher runs bounded retry cycles against a TagSource.
type Fetcher struct {
	source     TagSource
	retryDelay time.Duration
	maxRetries int
	logger     *zap.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithRetryDelay overrides the delay between attempts.
func WithRetryDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d >= 0 {
			f.retryDelay = d
		}
	}
}

// WithMaxRetries overrides the retry budget.
func WithMaxRetries(n int) FetcherOption {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRetries = n
		}
	}
}

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher builds a Fetcher with the default 500ms / 3 retry policy.
func NewFetcher(source TagSource, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source:     source,
		retryDelay: DefaultRetryDelay,
		maxRetries: DefaultMaxRetries,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch runs one independent cycle. It returns the first non-empty cleaned
// list, or the fallback vocabulary once retries are exhausted. A cancelled
// context ends the cycle early with ctx.Err() and no presets.
func (f *Fetcher) Fetch(ctx context.Context) (FetchResult, error) {
	var result FetchResult
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, f.retryDelay); err != nil {
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Attempts++
		raw, err := f.source.GenerateTags(ctx)
		if err == nil {
			if cleaned := CleanPresets(raw); len(cleaned) > 0 {
				result.Presets = cleaned
				result.Origin = OriginRemote
				result.LastErr = nil
				return result, nil
			}
			err = ErrEmptyPresets
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		result.LastErr = err
		f.logger.Warn("preset fetch attempt failed",
			zap.Int("attempt", result.Attempts),
			zap.Error(err))
	}

	f.logger.Error("max retries reached, using fallback presets",
		zap.Int("attempts", result.Attempts),
		zap.Error(result.LastErr))
	result.Presets = append([]string(nil), FallbackPresets...)
	result.Origin = OriginFallback
	return result, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
