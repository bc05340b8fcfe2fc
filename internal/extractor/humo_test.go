package extractor

import (
	"testing"
	"time"

	"uzpay/receipt-parser/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const humoPaymentNotification = `Оплата
💸 50 000.00 UZS
💳 HUMO-CARD *6714
📍 YANDEX GO
🕓 11:48 05.04.2025
💰 1 250 000.00 UZS`

func tashkent(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)
	return loc
}

func TestHumoExtract(t *testing.T) {
	loc := tashkent(t)
	e := NewHumoExtractor(loc)

	tx, err := e.Extract(humoPaymentNotification)
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.True(t, decimal.NewFromInt(50000).Equal(tx.Amount), "got %s", tx.Amount)
	assert.Equal(t, models.CurrencyUZS, tx.Currency)
	assert.Equal(t, models.KindDebit, tx.Kind)
	assert.Equal(t, "6714", tx.CardSuffix)
	assert.Equal(t, "YANDEX GO", tx.CounterpartyRaw)
	assert.True(t, time.Date(2025, time.April, 5, 11, 48, 0, 0, loc).Equal(tx.OccurredAt))
	require.NotNil(t, tx.BalanceAfter)
	assert.True(t, decimal.NewFromInt(1250000).Equal(*tx.BalanceAfter), "got %s", tx.BalanceAfter)
	assert.Equal(t, models.MethodHumo, tx.Method)
	assert.Equal(t, ConfidenceHumo, tx.Confidence)
}

func TestHumoExtractKinds(t *testing.T) {
	loc := tashkent(t)
	e := NewHumoExtractor(loc)

	tests := []struct {
		name     string
		text     string
		expected models.TransactionKind
	}{
		{
			"Top-up keyword",
			"Пополнение\n➕ 400.000,00 UZS\n💳 HUMO-CARD *6714\n🕘 09:15 01.03.25",
			models.KindCredit,
		},
		{
			"Operation keyword",
			"Операция\n💸 15 000.00 UZS\n🕓 18:02 12.05.2025",
			models.KindDebit,
		},
		{
			"Conversion keyword",
			"Конверсия\n💸 100.00 USD\n💸 1 280 000.00 UZS\n🕓 10:00 07.04.2025",
			models.KindConversion,
		},
		{
			"Plus glyph without keyword",
			"➕ 25 000.00 UZS\n🕓 08:30 03.04.2025",
			models.KindCredit,
		},
		{
			"No keyword defaults to debit",
			"💸 5 000.00 UZS\n🕓 08:30 03.04.2025",
			models.KindDebit,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := e.Extract(tc.text)
			require.NoError(t, err)
			require.NotNil(t, tx)
			assert.Equal(t, tc.expected, tx.Kind)
		})
	}
}

func TestHumoExtractTwoDigitYear(t *testing.T) {
	loc := tashkent(t)
	e := NewHumoExtractor(loc)

	tx, err := e.Extract("Оплата\n💸 80 000.00 UZS\n🕓 11:48 02.04.25")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.True(t, time.Date(2025, time.April, 2, 11, 48, 0, 0, loc).Equal(tx.OccurredAt))
}

func TestHumoExtractNoMatch(t *testing.T) {
	e := NewHumoExtractor(tashkent(t))

	tests := []struct {
		name string
		text string
	}{
		{"Plain text", "hello world"},
		{"Amount without datetime", "Оплата\n💸 50 000.00 UZS\n💳 HUMO-CARD *6714"},
		{"Datetime without tagged amount", "Оплата\n🕓 11:48 05.04.2025"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := e.Extract(tc.text)
			assert.NoError(t, err)
			assert.Nil(t, tx)
		})
	}
}

func TestHumoExtractOptionalFieldsAbsent(t *testing.T) {
	e := NewHumoExtractor(tashkent(t))

	tx, err := e.Extract("Оплата\n💸 50 000.00 UZS\n🕓 11:48 05.04.2025")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Empty(t, tx.CardSuffix)
	assert.Empty(t, tx.CounterpartyRaw)
	assert.Nil(t, tx.BalanceAfter)
}
