package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"uzpay/receipt-parser/internal/extractor"
	"uzpay/receipt-parser/internal/fallback"
	"uzpay/receipt-parser/internal/models"
	"uzpay/receipt-parser/internal/pipeline"
	"uzpay/receipt-parser/internal/resolver"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct{}

func (s *stubStore) LoadRules() ([]resolver.Rule, error) {
	return []resolver.Rule{
		{Pattern: "YANDEX GO", ApplicationName: "Yandex Go", Priority: 1, IsActive: true},
	}, nil
}

func newTestPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	res, err := resolver.New(&stubStore{}, nil)
	require.NoError(t, err)

	cascade := extractor.NewCascade(loc, nil)
	adapter := fallback.NewAdapter(nil, loc, time.Second, nil)
	return pipeline.New(cascade, adapter, res, pipeline.DefaultConfidenceThreshold, nil)
}

const dump = `Оплата
💸 50 000.00 UZS
💳 HUMO-CARD *6714
📍 YANDEX GO
🕓 11:48 05.04.2025

HUMOCARD *6921: oplata 200000.00 UZS; SmartBank P2P HUMO U; 25-04-02 15:33; Dostupno: 1852200.28 UZS

this one is not a notification at all

Pokupka: XK FAMILY SHOP, TOSHKENT, 02.04.25 11:48 karta ***0907. summa:80000.00 UZS, balans:2527792.14 UZS`

func TestSplitMessages(t *testing.T) {
	messages := SplitMessages(dump)
	require.Len(t, messages, 4)
	assert.True(t, strings.HasPrefix(messages[0], "Оплата"))
	assert.True(t, strings.HasPrefix(messages[3], "Pokupka:"))
}

func TestSplitMessagesWindowsLineEndings(t *testing.T) {
	messages := SplitMessages("first line\r\n\r\nsecond line\r\n")
	require.Len(t, messages, 2)
	assert.Equal(t, "first line", messages[0])
	assert.Equal(t, "second line", messages[1])
}

func TestSplitMessagesEmpty(t *testing.T) {
	assert.Empty(t, SplitMessages(""))
	assert.Empty(t, SplitMessages("\n\n\n"))
}

func TestProcessAll(t *testing.T) {
	p := NewProcessor(newTestPipeline(t), nil)

	result := p.ProcessAll(context.Background(), SplitMessages(dump))
	require.Len(t, result.Transactions, 3)
	require.Len(t, result.Failures, 1)

	// Chronological order: the SMS and semicolon messages are from April 2,
	// the HUMO push from April 5.
	assert.Equal(t, models.MethodSMS, result.Transactions[0].Method)
	assert.Equal(t, models.MethodSemicolon, result.Transactions[1].Method)
	assert.Equal(t, models.MethodHumo, result.Transactions[2].Method)

	assert.Equal(t, "Yandex Go", result.Transactions[2].CounterpartyResolved)

	failure := result.Failures[0]
	assert.Equal(t, 2, failure.Index)
	assert.Contains(t, failure.Snippet, "not a notification")
	assert.Error(t, failure.Err)
}

func TestExportCSV(t *testing.T) {
	p := NewProcessor(newTestPipeline(t), nil)
	result := p.ProcessAll(context.Background(), SplitMessages(dump))

	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, ExportCSV(result.Transactions, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "occurred_at")
	assert.Contains(t, content, "80000.00")
	assert.Contains(t, content, "DETERMINISTIC:HUMO")
	assert.Contains(t, content, "Yandex Go")
}

func TestExportCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, ExportCSV(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "occurred_at")
}

func TestSortBreaksTiesByAmount(t *testing.T) {
	p := NewProcessor(newTestPipeline(t), nil)
	when := time.Date(2025, time.April, 2, 15, 33, 0, 0, time.UTC)

	txs := []models.ParsedTransaction{
		{Amount: decimal.NewFromInt(300), OccurredAt: when},
		{Amount: decimal.NewFromInt(100), OccurredAt: when},
	}
	p.sortChronologically(txs)
	assert.True(t, txs[0].Amount.LessThan(txs[1].Amount))
}
