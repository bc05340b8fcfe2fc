// Package batch processes dumps containing many notification messages and
// exports the parsed transactions as CSV.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"uzpay/receipt-parser/internal/logging"
	"uzpay/receipt-parser/internal/models"
	"uzpay/receipt-parser/internal/pipeline"

	"github.com/gocarina/gocsv"
)

// Failure records one message that could not be parsed. The batch keeps
// going; failures are reported alongside the successes.
type Failure struct {
	Index   int
	Snippet string
	Err     error
}

// Result is the outcome of one batch run.
type Result struct {
	Transactions []models.ParsedTransaction
	Failures     []Failure
}

// Processor runs every message of a dump through the parsing pipeline.
type Processor struct {
	pipeline *pipeline.Pipeline
	logger   logging.Logger
}

// NewProcessor creates a batch processor over the given pipeline.
func NewProcessor(p *pipeline.Pipeline, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Processor{pipeline: p, logger: logger}
}

// SplitMessages splits a dump into individual messages. Messages are
// separated by blank lines, so multi-line push notifications stay intact.
func SplitMessages(data string) []string {
	normalized := strings.ReplaceAll(data, "\r\n", "\n")

	var messages []string
	for _, block := range strings.Split(normalized, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		messages = append(messages, block)
	}
	return messages
}

// ProcessAll parses every message, skipping failed ones but recording them.
// Successful transactions are returned sorted chronologically.
func (p *Processor) ProcessAll(ctx context.Context, messages []string) *Result {
	result := &Result{}

	for i, msg := range messages {
		tx, err := p.pipeline.Process(ctx, msg)
		if err != nil {
			p.logger.WithError(err).WithField("index", i).Warn("Skipping unparsable message")
			result.Failures = append(result.Failures, Failure{
				Index:   i,
				Snippet: snippet(msg),
				Err:     err,
			})
			continue
		}
		result.Transactions = append(result.Transactions, *tx)
	}

	p.sortChronologically(result.Transactions)
	p.logDuplicates(result.Transactions)

	p.logger.Info("Batch processed",
		logging.Field{Key: "total", Value: len(messages)},
		logging.Field{Key: "parsed", Value: len(result.Transactions)},
		logging.Field{Key: "failed", Value: len(result.Failures)})

	return result
}

// sortChronologically orders transactions by occurrence time, breaking ties
// by amount for deterministic output.
func (p *Processor) sortChronologically(transactions []models.ParsedTransaction) {
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].OccurredAt.Equal(transactions[j].OccurredAt) {
			return transactions[i].OccurredAt.Before(transactions[j].OccurredAt)
		}
		return transactions[i].Amount.LessThan(transactions[j].Amount)
	})
}

// logDuplicates warns about transactions that share time, amount and
// counterparty. Duplicates are kept; the warning helps spot overlapping dumps.
func (p *Processor) logDuplicates(transactions []models.ParsedTransaction) {
	count := 0
	for i := 0; i < len(transactions)-1; i++ {
		tx1, tx2 := transactions[i], transactions[i+1]
		if tx1.OccurredAt.Equal(tx2.OccurredAt) &&
			tx1.Amount.Equal(tx2.Amount) &&
			strings.EqualFold(tx1.CounterpartyRaw, tx2.CounterpartyRaw) {
			count++
			p.logger.Warn("Potential duplicate transaction",
				logging.Field{Key: "occurred_at", Value: tx1.OccurredAt},
				logging.Field{Key: "amount", Value: tx1.Amount.String()},
				logging.Field{Key: "counterparty", Value: tx1.CounterpartyRaw})
		}
	}
	if count > 0 {
		p.logger.Warn("Found potential duplicate transactions",
			logging.Field{Key: "count", Value: count})
	}
}

func snippet(text string) string {
	const max = 40
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return string(runes)
}

// csvRecord is the flat CSV row shape for one parsed transaction.
type csvRecord struct {
	OccurredAt           string `csv:"occurred_at"`
	Amount               string `csv:"amount"`
	Currency             string `csv:"currency"`
	Kind                 string `csv:"transaction_kind"`
	CardSuffix           string `csv:"card_suffix"`
	CounterpartyRaw      string `csv:"counterparty_raw"`
	CounterpartyResolved string `csv:"counterparty_resolved"`
	BalanceAfter         string `csv:"balance_after"`
	Method               string `csv:"extraction_method"`
	Confidence           string `csv:"confidence"`
}

// ExportCSV writes the transactions to a CSV file.
func ExportCSV(transactions []models.ParsedTransaction, csvFile string) error {
	records := make([]csvRecord, 0, len(transactions))
	for _, tx := range transactions {
		rec := csvRecord{
			OccurredAt:           tx.OccurredAt.Format("2006-01-02 15:04"),
			Amount:               tx.Amount.StringFixed(2),
			Currency:             string(tx.Currency),
			Kind:                 string(tx.Kind),
			CardSuffix:           tx.CardSuffix,
			CounterpartyRaw:      tx.CounterpartyRaw,
			CounterpartyResolved: tx.CounterpartyResolved,
			Method:               string(tx.Method),
			Confidence:           fmt.Sprintf("%.2f", tx.Confidence),
		}
		if tx.BalanceAfter != nil {
			rec.BalanceAfter = tx.BalanceAfter.StringFixed(2)
		}
		records = append(records, rec)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- CLI tool takes user-provided file paths
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	csvWriter := csv.NewWriter(file)
	if err := gocsv.MarshalCSV(&records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}
