// Package normalize provides the shared text-to-value conversions used by
// every extractor: amount strings to decimals and the date/time layouts found
// in payment notifications to timezone-aware timestamps.
package normalize

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"uzpay/receipt-parser/internal/parsererror"

	"github.com/shopspring/decimal"
)

// DateLayout identifies one of the date layouts found in notification text.
type DateLayout int

const (
	// LayoutDotDate is DD.MM.YYYY or DD.MM.YY with a two-digit year
	// expanded by prefixing "20".
	LayoutDotDate DateLayout = iota
	// LayoutDashDate is YY-MM-DD with the year expanded by prefixing "20".
	LayoutDashDate
)

// DefaultTimezone is the reference timezone all timestamps are normalized to.
const DefaultTimezone = "Asia/Tashkent"

// Amount converts a raw amount string to a decimal. All whitespace is
// stripped first. A comma, when present, is the decimal separator and any
// dots are thousands separators ("400.000,00" -> 400000.00); without a comma
// the dot is the decimal separator ("200000.00" -> 200000.00).
func Amount(text string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &parsererror.MalformedAmountError{Value: text, Err: err}
	}
	return d, nil
}

// Timestamp parses a date string and an HH:MM time string according to the
// given layout and returns the instant in loc. Source timestamps carry no
// zone of their own, so they are interpreted as already being local to loc.
func Timestamp(dateText, timeText string, layout DateLayout, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	var goLayout, value string
	switch layout {
	case LayoutDotDate:
		parts := strings.Split(dateText, ".")
		if len(parts) != 3 {
			return time.Time{}, &parsererror.MalformedTimestampError{
				Date: dateText, Time: timeText,
				Err: fmt.Errorf("expected DD.MM.YYYY or DD.MM.YY"),
			}
		}
		if len(parts[2]) == 2 {
			parts[2] = "20" + parts[2]
		}
		goLayout = "02.01.2006 15:04"
		value = strings.Join(parts, ".") + " " + timeText
	case LayoutDashDate:
		parts := strings.Split(dateText, "-")
		if len(parts) != 3 {
			return time.Time{}, &parsererror.MalformedTimestampError{
				Date: dateText, Time: timeText,
				Err: fmt.Errorf("expected YY-MM-DD"),
			}
		}
		if len(parts[0]) == 2 {
			parts[0] = "20" + parts[0]
		}
		goLayout = "2006-01-02 15:04"
		value = strings.Join(parts, "-") + " " + timeText
	default:
		return time.Time{}, &parsererror.MalformedTimestampError{
			Date: dateText, Time: timeText,
			Err: fmt.Errorf("unknown date layout %d", layout),
		}
	}

	t, err := time.ParseInLocation(goLayout, value, loc)
	if err != nil {
		return time.Time{}, &parsererror.MalformedTimestampError{Date: dateText, Time: timeText, Err: err}
	}
	return t, nil
}
