package extractor

import (
	"fmt"
	"strings"
	"time"

	"uzpay/receipt-parser/internal/logging"
	"uzpay/receipt-parser/internal/models"
	"uzpay/receipt-parser/internal/parsererror"
)

// Sniff signals. The formats are not mutually exclusive in every input, so
// the dispatch order below encodes which format owns ambiguous text: HUMO
// glyphs first, then the semicolon card token, then the SMS markers.
var humoGlyphs = []string{"💸", "💳", "📍", "🕓", "🕘"}

const (
	semicolonCardToken = "HUMOCARD *"
	smsAmountMarker    = "summa:"
	smsCardMarker      = "karta"
)

// Cascade dispatches raw text to at most one format extractor. A sniffed
// format that then fails does not fall through to another deterministic
// format; the failure is reported so the pipeline can defer to fallback.
type Cascade struct {
	humo      *HumoExtractor
	semicolon *SemicolonExtractor
	sms       *SMSExtractor
	logger    logging.Logger
}

// NewCascade creates a cascade over the three format extractors, producing
// timestamps in loc.
func NewCascade(loc *time.Location, logger logging.Logger) *Cascade {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Cascade{
		humo:      NewHumoExtractor(loc),
		semicolon: NewSemicolonExtractor(loc),
		sms:       NewSMSExtractor(loc),
		logger:    logger,
	}
}

// Extract sniffs the text and runs the single matching extractor.
func (c *Cascade) Extract(text string) (*models.ParsedTransaction, error) {
	switch {
	case containsAny(text, humoGlyphs):
		return c.run("humo", c.humo, text)
	case strings.Contains(text, semicolonCardToken) && strings.Contains(text, ";"):
		return c.run("semicolon", c.semicolon, text)
	case strings.Contains(text, smsAmountMarker) && strings.Contains(text, smsCardMarker):
		return c.run("sms", c.sms, text)
	default:
		return nil, &parsererror.NoFormatRecognizedError{Snippet: snippet(text)}
	}
}

func (c *Cascade) run(name string, e Extractor, text string) (*models.ParsedTransaction, error) {
	tx, err := e.Extract(text)
	if err != nil {
		c.logger.WithError(err).WithField("format", name).Debug("Extractor matched format but failed on a field")
		return nil, err
	}
	if tx == nil {
		c.logger.WithField("format", name).Debug("Format sniffed but required fields missing")
		return nil, fmt.Errorf("%s format: required fields not found", name)
	}
	return tx, nil
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func snippet(text string) string {
	const max = 40
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return string(runes)
}
