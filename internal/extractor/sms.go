package extractor

import (
	"regexp"
	"strings"
	"time"

	"uzpay/receipt-parser/internal/models"
	"uzpay/receipt-parser/internal/normalize"
)

// SMS inline format: single line, keyword-prefixed fields.
//
//	Pokupka: XK FAMILY SHOP, TOSHKENT, 02.04.25 11:48 karta ***0907.
//	summa:80000.00 UZS, balans:2527792.14 UZS
var (
	smsPartyRe    = regexp.MustCompile(`(?:Pokupka|Spisanie c karty|Popolnenie scheta|E-Com oplata|Platezh):\s*(.+?)(?:,|\s+\d{2}\.\d{2})`)
	smsDatetimeRe = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{2})\s+(\d{2}:\d{2})`)
	smsAmountRe   = regexp.MustCompile(`summa:([\d.]+)\s*UZS`)
	smsCardRe     = regexp.MustCompile(`karta\s*\*{3}(\d{4})`)
	smsBalanceRe  = regexp.MustCompile(`balans:([\d.]+)\s*UZS`)
	smsKindRe     = regexp.MustCompile(`^(Pokupka|Spisanie|Popolnenie|E-Com|Platezh|OTMENA)`)
)

// SMSExtractor parses the inline SMS layout.
type SMSExtractor struct {
	loc *time.Location
}

// NewSMSExtractor creates an SMS extractor producing timestamps in loc.
func NewSMSExtractor(loc *time.Location) *SMSExtractor {
	return &SMSExtractor{loc: loc}
}

// Extract implements Extractor.
func (e *SMSExtractor) Extract(text string) (*models.ParsedTransaction, error) {
	amountMatch := smsAmountRe.FindStringSubmatch(text)
	if amountMatch == nil {
		return nil, nil
	}
	datetimeMatch := smsDatetimeRe.FindStringSubmatch(text)
	if datetimeMatch == nil {
		return nil, nil
	}

	amount, err := normalize.Amount(amountMatch[1])
	if err != nil {
		return nil, err
	}

	dateStr, timeStr := datetimeMatch[1], datetimeMatch[2]
	occurredAt, err := normalize.Timestamp(dateStr, timeStr, normalize.LayoutDotDate, e.loc)
	if err != nil {
		return nil, err
	}

	// A leading keyword decides the kind; anything unrecognized is a debit.
	kind := models.KindDebit
	if kindMatch := smsKindRe.FindStringSubmatch(text); kindMatch != nil {
		switch kindMatch[1] {
		case "Popolnenie":
			kind = models.KindCredit
		case "OTMENA":
			kind = models.KindReversal
		}
	}

	tx := &models.ParsedTransaction{
		Amount:     amount,
		Currency:   models.CurrencyUZS,
		Kind:       kind,
		OccurredAt: occurredAt,
		Method:     models.MethodSMS,
		Confidence: ConfidenceSMS,
	}

	if partyMatch := smsPartyRe.FindStringSubmatch(text); partyMatch != nil {
		tx.CounterpartyRaw = strings.TrimSpace(partyMatch[1])
	}
	if cardMatch := smsCardRe.FindStringSubmatch(text); cardMatch != nil {
		tx.CardSuffix = cardMatch[1]
	}
	if balanceMatch := smsBalanceRe.FindStringSubmatch(text); balanceMatch != nil {
		balance, err := normalize.Amount(balanceMatch[1])
		if err != nil {
			return nil, err
		}
		tx.BalanceAfter = &balance
	}

	return tx, nil
}
