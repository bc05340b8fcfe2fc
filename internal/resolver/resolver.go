// Package resolver maps raw counterparty labels from notification text to
// canonical application names via a prioritized, in-memory rule table.
package resolver

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"uzpay/receipt-parser/internal/logging"
)

// normalizeStrip removes everything except letters, digits, spaces and the
// routing glyphs '>' '<' that some source labels use to encode gateway chains.
var normalizeStrip = regexp.MustCompile(`[^\p{L}\p{N}\s><]`)

// Resolver holds an immutable snapshot of active mapping rules sorted by
// priority descending. Lookups read the snapshot without locking beyond the
// swap itself; Refresh atomically replaces it, so in-flight resolutions keep
// operating on the snapshot they started with.
type Resolver struct {
	store  Store
	logger logging.Logger

	mu       sync.RWMutex
	snapshot []Rule
}

// New loads the active rules from the store and returns a ready resolver.
// A store error surfaces so callers can decide whether an empty rule table
// is acceptable.
func New(store Store, logger logging.Logger) (*Resolver, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	r := &Resolver{store: store, logger: logger}
	if err := r.Refresh(); err != nil {
		return nil, err
	}
	return r, nil
}

// Refresh re-reads the store and swaps in a new snapshot.
func (r *Resolver) Refresh() error {
	rules, err := r.store.LoadRules()
	if err != nil {
		return err
	}

	snapshot := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		rule.Pattern = Normalize(rule.Pattern)
		if rule.Pattern == "" {
			continue
		}
		snapshot = append(snapshot, rule)
	}
	// Stable sort: equal priorities keep registration order, which is the
	// documented tie-break for substring matches.
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Priority > snapshot[j].Priority
	})

	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()

	r.logger.Info("Resolver rule snapshot refreshed",
		logging.Field{Key: "active_rules", Value: len(snapshot)})
	return nil
}

// rules returns the current snapshot reference. The slice is never mutated
// after the swap, so iterating it outside the lock is safe.
func (r *Resolver) rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Normalize prepares a label for matching: uppercase, collapsed whitespace,
// and everything except letters, digits, spaces, '>' and '<' stripped.
func Normalize(label string) string {
	normalized := strings.ToUpper(label)
	normalized = normalizeStrip.ReplaceAllString(normalized, " ")
	return strings.Join(strings.Fields(normalized), " ")
}

// Resolve maps a raw counterparty label to a canonical application name.
// An exact pattern match always wins regardless of priority; otherwise the
// highest-priority rule whose pattern is a substring of the normalized label
// wins, first-seen breaking ties. The second return value is false when no
// rule matches; absence of a mapping is a normal outcome, never an error.
func (r *Resolver) Resolve(label string) (string, bool) {
	if strings.TrimSpace(label) == "" {
		return "", false
	}

	normalized := Normalize(label)
	rules := r.rules()

	for _, rule := range rules {
		if rule.Pattern == normalized {
			return rule.ApplicationName, true
		}
	}

	// The snapshot is sorted by priority descending with a stable sort, so
	// the first substring hit is the highest-priority one, with registration
	// order breaking ties.
	for _, rule := range rules {
		if strings.Contains(normalized, rule.Pattern) {
			return rule.ApplicationName, true
		}
	}
	return "", false
}
