package scan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNoTags blocks a scan with neither typed words nor presets.
	ErrNoTags = errors.New("describe your scene or pick a preset first")
	// ErrSubmitting rejects a second scan while one is in flight.
	ErrSubmitting = errors.New("scan already in progress")
	// ErrLoading holds a scan back until the first preset fetch resolves.
	ErrLoading = errors.New("presets are still loading")
)

// TagSink accepts the final tag set for a scan.
type TagSink interface {
	SetTags(ctx context.Context, tags []string) error
}

// SubmitResult is the explicit outcome of a scan submission.
type SubmitResult struct {
	Tags []string
	Err  error
}

// OK reports whether the scan was accepted.
func (r SubmitResult) OK() bool {
	return r.Err == nil
}

// Submitter posts scan tags once, without retrying.
type Submitter struct {
	sink   TagSink
	logger *zap.Logger
}

// NewSubmitter builds a Submitter. A nil logger disables diagnostics.
func NewSubmitter(sink TagSink, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{sink: sink, logger: logger}
}

// Submit posts an already normalized payload.
func (s *Submitter) Submit(ctx context.Context, tags []string) SubmitResult {
	if len(tags) == 0 {
		return SubmitResult{Err: ErrNoTags}
	}
	if err := s.sink.SetTags(ctx, tags); err != nil {
		s.logger.Error("scan submission failed", zap.Strings("tags", tags), zap.Error(err))
		return SubmitResult{Tags: tags, Err: fmt.Errorf("submit scan: %w", err)}
	}
	s.logger.Info("scan submitted", zap.Strings("tags", tags))
	return SubmitResult{Tags: tags}
}

// SubmitSelection normalizes a selection and submits it.
func (s *Submitter) SubmitSelection(ctx context.Context, sel *Selection) SubmitResult {
	return s.Submit(ctx, sel.Payload())
}
