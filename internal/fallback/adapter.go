package fallback

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"uzpay/receipt-parser/internal/logging"
	"uzpay/receipt-parser/internal/models"
	"uzpay/receipt-parser/internal/parsererror"

	"github.com/shopspring/decimal"
)

// timestamp layouts the capability may answer with when it omits the zone.
var naiveTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

var adapterCardSuffixRe = regexp.MustCompile(`^\d{4}$`)

// Adapter converts the capability's payload into the domain transaction
// record. Every capability error, timeout or schema violation is reported as
// a fallback failure; none of them escapes as a panic or a foreign error type.
type Adapter struct {
	client  Client
	loc     *time.Location
	timeout time.Duration
	logger  logging.Logger
}

// NewAdapter wraps a capability client with a bounded timeout and timezone
// conversion into loc.
func NewAdapter(client Client, loc *time.Location, timeout time.Duration, logger logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{client: client, loc: loc, timeout: timeout, logger: logger}
}

// Extract invokes the capability and converts its answer. A slow call is cut
// off by the adapter's timeout and degrades this one message only.
func (a *Adapter) Extract(ctx context.Context, text string) (*models.ParsedTransaction, error) {
	if a.client == nil {
		return nil, &parsererror.FallbackError{Reason: "no extraction capability configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := a.client.Extract(ctx, text)
	if err != nil {
		a.logger.WithError(err).Warn("Fallback capability call failed")
		return nil, &parsererror.FallbackError{Reason: "capability call failed", Err: err}
	}
	if payload == nil {
		return nil, &parsererror.FallbackError{Reason: "capability returned no payload"}
	}

	tx, err := a.convert(payload)
	if err != nil {
		a.logger.WithError(err).Warn("Fallback payload violates the response schema")
		return nil, err
	}
	return tx, nil
}

// convert validates the payload against the response contract and maps it
// into domain units.
func (a *Adapter) convert(p *Payload) (*models.ParsedTransaction, error) {
	kind := models.TransactionKind(p.Kind)
	if !kind.IsValid() {
		return nil, &parsererror.FallbackError{Reason: fmt.Sprintf("invalid transaction kind %q", p.Kind)}
	}
	if p.CardSuffix != "" && !adapterCardSuffixRe.MatchString(p.CardSuffix) {
		return nil, &parsererror.FallbackError{Reason: fmt.Sprintf("invalid card suffix %q", p.CardSuffix)}
	}
	if p.Confidence < 0.0 || p.Confidence > 1.0 {
		return nil, &parsererror.FallbackError{Reason: fmt.Sprintf("confidence %f out of range", p.Confidence)}
	}
	if p.Amount < 0 {
		return nil, &parsererror.FallbackError{Reason: fmt.Sprintf("negative amount %f", p.Amount)}
	}

	currency := models.DefaultCurrency
	if p.Currency != "" {
		currency = models.Currency(p.Currency)
		if !currency.IsValid() {
			return nil, &parsererror.FallbackError{Reason: fmt.Sprintf("invalid currency %q", p.Currency)}
		}
	}

	occurredAt, err := a.parseTimestamp(p.Timestamp)
	if err != nil {
		return nil, &parsererror.FallbackError{Reason: "invalid timestamp", Err: err}
	}

	tx := &models.ParsedTransaction{
		Amount:          decimal.NewFromFloat(p.Amount),
		Currency:        currency,
		Kind:            kind,
		CardSuffix:      p.CardSuffix,
		CounterpartyRaw: p.Counterparty,
		OccurredAt:      occurredAt,
		Method:          models.MethodFallback,
		Confidence:      p.Confidence,
	}
	if p.BalanceAfter != nil {
		balance := decimal.NewFromFloat(*p.BalanceAfter)
		tx.BalanceAfter = &balance
	}

	if err := tx.Validate(); err != nil {
		return nil, &parsererror.FallbackError{Reason: "payload failed record validation", Err: err}
	}
	return tx, nil
}

// parseTimestamp accepts RFC 3339 timestamps, converting zoned values into
// the reference location and interpreting zone-free ones as already local.
func (a *Adapter) parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(a.loc), nil
	}
	for _, layout := range naiveTimestampLayouts {
		if t, err := time.ParseInLocation(layout, value, a.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format: %s", value)
}
