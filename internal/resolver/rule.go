package resolver

// Rule maps a counterparty pattern to a canonical application name.
// Patterns are stored normalized (uppercase, collapsed whitespace); a higher
// priority wins among substring matches. Inactive rules are never consulted.
type Rule struct {
	Pattern         string `yaml:"pattern" csv:"pattern"`
	ApplicationName string `yaml:"app_name" csv:"app_name"`
	Priority        int    `yaml:"priority" csv:"priority"`
	IsActive        bool   `yaml:"active" csv:"active"`
}
