package extractor

import (
	"regexp"
	"strings"
	"time"

	"uzpay/receipt-parser/internal/models"
	"uzpay/receipt-parser/internal/normalize"
)

// HUMO notification format: multi-line push text with emoji-tagged fields.
//
//	Оплата
//	💸 50 000.00 UZS
//	💳 HUMO-CARD *6714
//	📍 YANDEX GO
//	🕓 11:48 05.04.2025
//	💰 1 250 000.00 UZS
var (
	humoAmountRe   = regexp.MustCompile(`[➖➕💸]\s*([\d\s.,]+)\s*UZS`)
	humoKindRe     = regexp.MustCompile(`(Оплата|Пополнение|Операция|Конверсия)`)
	humoCardRe     = regexp.MustCompile(`(?:HUMO-?CARD|💳)\s*\*+(\d{4})`)
	humoPartyRe    = regexp.MustCompile(`📍\s*(.+)`)
	humoDatetimeRe = regexp.MustCompile(`[🕓🕘]\s*(\d{2}:\d{2})\s+(\d{2}\.\d{2}\.\d{2,4})`)
	humoBalanceRe  = regexp.MustCompile(`💰\s*([\d\s.,]+)\s*UZS`)
	humoCurrencyRe = regexp.MustCompile(`(USD|UZS)`)
)

var humoKindMap = map[string]models.TransactionKind{
	"Оплата":     models.KindDebit,
	"Пополнение": models.KindCredit,
	"Операция":   models.KindDebit,
	"Конверсия":  models.KindConversion,
}

// HumoExtractor parses the HUMO push notification layout.
type HumoExtractor struct {
	loc *time.Location
}

// NewHumoExtractor creates a HUMO extractor producing timestamps in loc.
func NewHumoExtractor(loc *time.Location) *HumoExtractor {
	return &HumoExtractor{loc: loc}
}

// Extract implements Extractor.
func (e *HumoExtractor) Extract(text string) (*models.ParsedTransaction, error) {
	amountMatch := humoAmountRe.FindStringSubmatch(text)
	if amountMatch == nil {
		return nil, nil
	}
	datetimeMatch := humoDatetimeRe.FindStringSubmatch(text)
	if datetimeMatch == nil {
		return nil, nil
	}

	amount, err := normalize.Amount(amountMatch[1])
	if err != nil {
		return nil, err
	}

	timeStr, dateStr := datetimeMatch[1], datetimeMatch[2]
	occurredAt, err := normalize.Timestamp(dateStr, timeStr, normalize.LayoutDotDate, e.loc)
	if err != nil {
		return nil, err
	}

	kind := models.KindDebit
	if kindMatch := humoKindRe.FindStringSubmatch(text); kindMatch != nil {
		kind = humoKindMap[kindMatch[1]]
	} else if strings.Contains(text, "➕") || strings.Contains(text, "🎉") {
		kind = models.KindCredit
	}

	tx := &models.ParsedTransaction{
		Amount:     amount,
		Currency:   models.DefaultCurrency,
		Kind:       kind,
		OccurredAt: occurredAt,
		Method:     models.MethodHumo,
		Confidence: ConfidenceHumo,
	}

	if cardMatch := humoCardRe.FindStringSubmatch(text); cardMatch != nil {
		tx.CardSuffix = cardMatch[1]
	}
	if partyMatch := humoPartyRe.FindStringSubmatch(text); partyMatch != nil {
		tx.CounterpartyRaw = strings.TrimSpace(partyMatch[1])
	}
	if balanceMatch := humoBalanceRe.FindStringSubmatch(text); balanceMatch != nil {
		balance, err := normalize.Amount(balanceMatch[1])
		if err != nil {
			return nil, err
		}
		tx.BalanceAfter = &balance
	}
	if currencyMatch := humoCurrencyRe.FindStringSubmatch(text); currencyMatch != nil {
		tx.Currency = models.Currency(currencyMatch[1])
	}

	return tx, nil
}
