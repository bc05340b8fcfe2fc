// Package models defines the structured transaction record produced by the
// parsing pipeline and the enumerations attached to it.
package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies the direction or nature of a transaction.
type TransactionKind string

const (
	KindDebit      TransactionKind = "DEBIT"
	KindCredit     TransactionKind = "CREDIT"
	KindConversion TransactionKind = "CONVERSION"
	KindReversal   TransactionKind = "REVERSAL"
)

// IsValid reports whether the kind is one of the known enumeration values.
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindDebit, KindCredit, KindConversion, KindReversal:
		return true
	}
	return false
}

// Currency is an ISO-style currency code.
type Currency string

const (
	CurrencyUZS Currency = "UZS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRUB Currency = "RUB"
)

// DefaultCurrency is assumed when the source text carries no currency code.
const DefaultCurrency = CurrencyUZS

// IsValid reports whether the currency is one of the supported codes.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUZS, CurrencyUSD, CurrencyEUR, CurrencyRUB:
		return true
	}
	return false
}

// ExtractionMethod tags which extraction strategy produced a record.
type ExtractionMethod string

const (
	MethodHumo      ExtractionMethod = "DETERMINISTIC:HUMO"
	MethodSMS       ExtractionMethod = "DETERMINISTIC:SMS"
	MethodSemicolon ExtractionMethod = "DETERMINISTIC:SEMICOLON"
	MethodFallback  ExtractionMethod = "FALLBACK"
)

var cardSuffixPattern = regexp.MustCompile(`^\d{4}$`)

// ParsedTransaction is the pipeline's output unit. A record either does not
// exist at all (the pipeline declared failure) or carries an amount, a kind
// and an occurrence timestamp; everything else is optional.
type ParsedTransaction struct {
	Amount               decimal.Decimal  `json:"amount"`
	Currency             Currency         `json:"currency"`
	Kind                 TransactionKind  `json:"transaction_kind"`
	CardSuffix           string           `json:"card_suffix,omitempty"`
	CounterpartyRaw      string           `json:"counterparty_raw,omitempty"`
	CounterpartyResolved string           `json:"counterparty_resolved,omitempty"`
	OccurredAt           time.Time        `json:"occurred_at"`
	BalanceAfter         *decimal.Decimal `json:"balance_after,omitempty"`
	Method               ExtractionMethod `json:"extraction_method"`
	Confidence           float64          `json:"confidence"`
}

// Validate enforces the record invariant.
func (t *ParsedTransaction) Validate() error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount must be non-negative, got %s", t.Amount)
	}
	if !t.Kind.IsValid() {
		return fmt.Errorf("invalid transaction kind: %q", t.Kind)
	}
	if t.OccurredAt.IsZero() {
		return fmt.Errorf("occurred_at must be set")
	}
	if t.Currency != "" && !t.Currency.IsValid() {
		return fmt.Errorf("invalid currency code: %q", t.Currency)
	}
	if t.CardSuffix != "" && !cardSuffixPattern.MatchString(t.CardSuffix) {
		return fmt.Errorf("card suffix must be 4 digits, got %q", t.CardSuffix)
	}
	if t.Confidence < 0.0 || t.Confidence > 1.0 {
		return fmt.Errorf("confidence must be in [0.0, 1.0], got %f", t.Confidence)
	}
	return nil
}
