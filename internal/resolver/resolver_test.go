package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is an in-memory Store for tests.
type stubStore struct {
	rules []Rule
	err   error
}

func (s *stubStore) LoadRules() ([]Rule, error) {
	return s.rules, s.err
}

func newTestResolver(t *testing.T, rules []Rule) *Resolver {
	t.Helper()
	r, err := New(&stubStore{rules: rules}, nil)
	require.NoError(t, err)
	return r
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercase", "yandex go", "YANDEX GO"},
		{"Punctuation stripped", "OOO \"YANDEX.GO\"", "OOO YANDEX GO"},
		{"Whitespace collapsed", "  XK   FAMILY   SHOP  ", "XK FAMILY SHOP"},
		{"Routing glyphs kept", "UZCARD>HUMO", "UZCARD>HUMO"},
		{"Cyrillic kept", "Магазин №5", "МАГАЗИН 5"},
		{"Digits kept", "PAYNET 24/7", "PAYNET 24 7"},
		{"Empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestResolveExactMatchBeatsPriority(t *testing.T) {
	r := newTestResolver(t, []Rule{
		{Pattern: "OQ", ApplicationName: "OQ", Priority: 1, IsActive: true},
		{Pattern: "OQ P2P", ApplicationName: "OQ Transfer", Priority: 10, IsActive: true},
	})

	// "OQ" is exact for the low-priority rule even though the high-priority
	// pattern would never substring-match it.
	name, ok := r.Resolve("OQ")
	require.True(t, ok)
	assert.Equal(t, "OQ", name)

	name, ok = r.Resolve("OQ P2P")
	require.True(t, ok)
	assert.Equal(t, "OQ Transfer", name)
}

func TestResolveSubstringByPriority(t *testing.T) {
	r := newTestResolver(t, []Rule{
		{Pattern: "PAY", ApplicationName: "Generic Pay", Priority: 1, IsActive: true},
		{Pattern: "PAYNET", ApplicationName: "Paynet", Priority: 2, IsActive: true},
	})

	name, ok := r.Resolve("PAYNET TOSHKENT FILIAL")
	require.True(t, ok)
	assert.Equal(t, "Paynet", name)

	// Only the generic pattern is contained here.
	name, ok = r.Resolve("APELSIN PAY MARKET")
	require.True(t, ok)
	assert.Equal(t, "Generic Pay", name)
}

func TestResolveEqualPriorityFirstSeenWins(t *testing.T) {
	r := newTestResolver(t, []Rule{
		{Pattern: "CLICK", ApplicationName: "Click", Priority: 5, IsActive: true},
		{Pattern: "CLICK UZ", ApplicationName: "Click UZ", Priority: 5, IsActive: true},
	})

	name, ok := r.Resolve("CLICK UZ P2P")
	require.True(t, ok)
	assert.Equal(t, "Click", name)
}

func TestResolveNormalizesLabelAndPattern(t *testing.T) {
	r := newTestResolver(t, []Rule{
		{Pattern: "yandex.go", ApplicationName: "Yandex Go", Priority: 1, IsActive: true},
	})

	name, ok := r.Resolve("OOO \"YANDEX GO\" TOSHKENT")
	require.True(t, ok)
	assert.Equal(t, "Yandex Go", name)
}

func TestResolveInactiveAndEmptyRulesExcluded(t *testing.T) {
	r := newTestResolver(t, []Rule{
		{Pattern: "PAYME", ApplicationName: "Payme", Priority: 1, IsActive: false},
		{Pattern: "...", ApplicationName: "Noise", Priority: 9, IsActive: true},
	})

	_, ok := r.Resolve("PAYME P2P")
	assert.False(t, ok)
}

func TestResolveNoMatchAndEmptyLabel(t *testing.T) {
	r := newTestResolver(t, []Rule{
		{Pattern: "PAYME", ApplicationName: "Payme", Priority: 1, IsActive: true},
	})

	_, ok := r.Resolve("UNKNOWN MERCHANT")
	assert.False(t, ok)

	_, ok = r.Resolve("   ")
	assert.False(t, ok)
}

func TestRefreshSwapsSnapshot(t *testing.T) {
	store := &stubStore{rules: []Rule{
		{Pattern: "PAYME", ApplicationName: "Payme", Priority: 1, IsActive: true},
	}}
	r, err := New(store, nil)
	require.NoError(t, err)

	_, ok := r.Resolve("PAYME P2P")
	require.True(t, ok)

	store.rules = []Rule{
		{Pattern: "CLICK", ApplicationName: "Click", Priority: 1, IsActive: true},
	}
	require.NoError(t, r.Refresh())

	_, ok = r.Resolve("PAYME P2P")
	assert.False(t, ok)
	name, ok := r.Resolve("CLICK EVO")
	require.True(t, ok)
	assert.Equal(t, "Click", name)
}

func TestNewPropagatesStoreError(t *testing.T) {
	_, err := New(&stubStore{err: assert.AnError}, nil)
	assert.Error(t, err)
}
