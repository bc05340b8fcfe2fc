// Package extractor implements the deterministic extraction of structured
// transaction records from raw payment notification text. Each supported
// layout has its own extractor with an independent pattern table; the
// Cascade dispatches to at most one of them based on cheap textual signals.
package extractor

import (
	"uzpay/receipt-parser/internal/models"
)

// Fixed per-format confidence scores. These gate the fallback decision in
// the pipeline and are policy values, not measurements.
const (
	ConfidenceHumo      = 0.95
	ConfidenceSMS       = 0.90
	ConfidenceSemicolon = 0.92
)

// Extractor recognizes one raw-text layout and extracts a transaction
// candidate from it.
type Extractor interface {
	// Extract returns (nil, nil) when the text does not contain the
	// format's required fields (amount and date/time), and a non-nil error
	// when a required field matched structurally but its content could not
	// be converted. Optional fields never cause a failure.
	Extract(text string) (*models.ParsedTransaction, error)
}
