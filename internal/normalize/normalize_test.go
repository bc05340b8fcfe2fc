package normalize

import (
	"testing"
	"time"

	"uzpay/receipt-parser/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"Canonical dot form", "200000.00", "200000.00", false},
		{"Comma decimal with dot thousands", "400.000,00", "400000.00", false},
		{"Space separated", "50 000.00", "50000.00", false},
		{"Space separated with comma decimal", "1 250 000,50", "1250000.50", false},
		{"Plain integer", "80000", "80000", false},
		{"Comma decimal only", "1234,56", "1234.56", false},
		{"Leading and trailing spaces", "  2527792.14  ", "2527792.14", false},
		{"Empty string", "", "", true},
		{"Letters", "abc", "", true},
		{"Multiple decimal points no comma", "1.2.3", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Amount(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				var malformed *parsererror.MalformedAmountError
				assert.ErrorAs(t, err, &malformed)
				return
			}
			require.NoError(t, err)
			expected := decimal.RequireFromString(tc.expected)
			assert.True(t, expected.Equal(d), "expected %s, got %s", expected, d)
		})
	}
}

func TestAmountRoundTrip(t *testing.T) {
	// Separator variants of the same value normalize to the same decimal.
	canonical, err := Amount("400000.00")
	require.NoError(t, err)

	variants := []string{"400.000,00", "400 000.00", "400000,00"}
	for _, v := range variants {
		d, err := Amount(v)
		require.NoError(t, err)
		assert.True(t, canonical.Equal(d), "expected %s to equal %s", v, canonical)
	}
}

func TestTimestamp(t *testing.T) {
	loc, err := time.LoadLocation(DefaultTimezone)
	require.NoError(t, err)

	tests := []struct {
		name     string
		date     string
		timeStr  string
		layout   DateLayout
		expected time.Time
		wantErr  bool
	}{
		{
			name: "Dot date four-digit year", date: "05.04.2025", timeStr: "11:48",
			layout:   LayoutDotDate,
			expected: time.Date(2025, time.April, 5, 11, 48, 0, 0, loc),
		},
		{
			name: "Dot date two-digit year expands to 20YY", date: "02.04.25", timeStr: "11:48",
			layout:   LayoutDotDate,
			expected: time.Date(2025, time.April, 2, 11, 48, 0, 0, loc),
		},
		{
			name: "Dash date two-digit year expands to 20YY", date: "25-04-02", timeStr: "15:33",
			layout:   LayoutDashDate,
			expected: time.Date(2025, time.April, 2, 15, 33, 0, 0, loc),
		},
		{name: "Month out of range", date: "05.13.2025", timeStr: "11:48", layout: LayoutDotDate, wantErr: true},
		{name: "Day out of range", date: "32.01.2025", timeStr: "11:48", layout: LayoutDotDate, wantErr: true},
		{name: "Missing component", date: "05.04", timeStr: "11:48", layout: LayoutDotDate, wantErr: true},
		{name: "Wrong separator for layout", date: "05.04.25", timeStr: "11:48", layout: LayoutDashDate, wantErr: true},
		{name: "Garbage time", date: "05.04.2025", timeStr: "xx:yy", layout: LayoutDotDate, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Timestamp(tc.date, tc.timeStr, tc.layout, loc)
			if tc.wantErr {
				require.Error(t, err)
				var malformed *parsererror.MalformedTimestampError
				assert.ErrorAs(t, err, &malformed)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
			assert.Equal(t, loc.String(), got.Location().String())
		})
	}
}

func TestTimestampNilLocationDefaultsToUTC(t *testing.T) {
	got, err := Timestamp("05.04.2025", "11:48", LayoutDotDate, nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
}
