package extractor

import (
	"regexp"
	"strings"
	"time"

	"uzpay/receipt-parser/internal/models"
	"uzpay/receipt-parser/internal/normalize"
)

// Semicolon-delimited format: a card-prefixed token followed by
// semicolon-separated fields.
//
//	HUMOCARD *6921: oplata 200000.00 UZS; SmartBank P2P HUMO U;
//	25-04-02 15:33; Dostupno: 1852200.28 UZS
var (
	semicolonCardAmountRe = regexp.MustCompile(`HUMOCARD\s*\*(\d{4}):\s*(oplata|popolnenie|operacija)\s+([\d.]+)\s*UZS`)
	semicolonPartyRe      = regexp.MustCompile(`;\s*([^;]+?)\s*;`)
	semicolonDatetimeRe   = regexp.MustCompile(`;\s*(\d{2})-(\d{2})-(\d{2})\s+(\d{2}:\d{2})`)
	semicolonBalanceRe    = regexp.MustCompile(`Dostupno:\s*([\d.]+)\s*UZS`)
)

var semicolonKindMap = map[string]models.TransactionKind{
	"oplata":     models.KindDebit,
	"popolnenie": models.KindCredit,
	"operacija":  models.KindDebit,
}

// SemicolonExtractor parses the semicolon-delimited layout.
type SemicolonExtractor struct {
	loc *time.Location
}

// NewSemicolonExtractor creates a semicolon-format extractor producing
// timestamps in loc.
func NewSemicolonExtractor(loc *time.Location) *SemicolonExtractor {
	return &SemicolonExtractor{loc: loc}
}

// Extract implements Extractor.
func (e *SemicolonExtractor) Extract(text string) (*models.ParsedTransaction, error) {
	cardAmountMatch := semicolonCardAmountRe.FindStringSubmatch(text)
	if cardAmountMatch == nil {
		return nil, nil
	}
	datetimeMatch := semicolonDatetimeRe.FindStringSubmatch(text)
	if datetimeMatch == nil {
		return nil, nil
	}

	cardSuffix := cardAmountMatch[1]
	kind := semicolonKindMap[cardAmountMatch[2]]

	amount, err := normalize.Amount(cardAmountMatch[3])
	if err != nil {
		return nil, err
	}

	dateStr := datetimeMatch[1] + "-" + datetimeMatch[2] + "-" + datetimeMatch[3]
	occurredAt, err := normalize.Timestamp(dateStr, datetimeMatch[4], normalize.LayoutDashDate, e.loc)
	if err != nil {
		return nil, err
	}

	tx := &models.ParsedTransaction{
		Amount:     amount,
		Currency:   models.CurrencyUZS,
		Kind:       kind,
		CardSuffix: cardSuffix,
		OccurredAt: occurredAt,
		Method:     models.MethodSemicolon,
		Confidence: ConfidenceSemicolon,
	}

	if partyMatch := semicolonPartyRe.FindStringSubmatch(text); partyMatch != nil {
		tx.CounterpartyRaw = strings.TrimSpace(partyMatch[1])
	}
	if balanceMatch := semicolonBalanceRe.FindStringSubmatch(text); balanceMatch != nil {
		balance, err := normalize.Amount(balanceMatch[1])
		if err != nil {
			return nil, err
		}
		tx.BalanceAfter = &balance
	}

	return tx, nil
}
