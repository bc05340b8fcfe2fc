// Package pipeline sequences the parsing stages: deterministic cascade,
// confidence gate, fallback extraction and counterparty resolution. One
// invocation handles one raw message and is free of shared mutable state, so
// invocations for different messages can run concurrently.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"uzpay/receipt-parser/internal/extractor"
	"uzpay/receipt-parser/internal/fallback"
	"uzpay/receipt-parser/internal/logging"
	"uzpay/receipt-parser/internal/models"
	"uzpay/receipt-parser/internal/parsererror"
	"uzpay/receipt-parser/internal/resolver"
)

// DefaultConfidenceThreshold gates acceptance of deterministic results.
const DefaultConfidenceThreshold = 0.8

// Pipeline converts raw notification text into a completed transaction
// record, or fails definitively. It never returns a partial record.
type Pipeline struct {
	cascade   *extractor.Cascade
	fallback  *fallback.Adapter
	resolver  *resolver.Resolver
	threshold float64
	logger    logging.Logger
}

// New assembles a pipeline. A threshold outside (0, 1] falls back to the
// default.
func New(cascade *extractor.Cascade, fb *fallback.Adapter, res *resolver.Resolver, threshold float64, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultConfidenceThreshold
	}
	return &Pipeline{
		cascade:   cascade,
		fallback:  fb,
		resolver:  res,
		threshold: threshold,
		logger:    logger,
	}
}

// Process runs the full pipeline for one message. The only error callers see
// on failure is *parsererror.NoExtractionError; the causes are attached for
// diagnostics.
func (p *Pipeline) Process(ctx context.Context, rawText string) (*models.ParsedTransaction, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, &parsererror.NoExtractionError{DeterministicErr: parsererror.ErrEmptyInput}
	}

	tx, detErr := p.cascade.Extract(rawText)
	switch {
	case detErr == nil && tx.Confidence >= p.threshold:
		p.logger.WithField("method", tx.Method).Debug("Deterministic extraction accepted")
	default:
		// A below-threshold candidate is discarded, never merged into the
		// fallback result.
		if detErr == nil {
			detErr = fmt.Errorf("deterministic confidence %.2f below threshold %.2f", tx.Confidence, p.threshold)
		}
		p.logger.WithError(detErr).Debug("Deterministic extraction unavailable, invoking fallback")

		var fbErr error
		tx, fbErr = p.fallback.Extract(ctx, rawText)
		if fbErr != nil {
			p.logger.WithError(fbErr).Warn("Fallback extraction failed, no extraction possible")
			return nil, &parsererror.NoExtractionError{
				DeterministicErr: detErr,
				FallbackErr:      fbErr,
			}
		}
		p.logger.WithField("confidence", tx.Confidence).Debug("Fallback extraction accepted")
	}

	if tx.CounterpartyRaw != "" {
		if name, ok := p.resolver.Resolve(tx.CounterpartyRaw); ok {
			tx.CounterpartyResolved = name
			p.logger.WithField("application", name).Debug("Counterparty resolved")
		} else {
			p.logger.WithField("counterparty", tx.CounterpartyRaw).Debug("No mapping for counterparty")
		}
	}

	if err := tx.Validate(); err != nil {
		return nil, &parsererror.NoExtractionError{DeterministicErr: detErr, FallbackErr: err}
	}
	return tx, nil
}
