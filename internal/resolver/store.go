package resolver

import (
	"fmt"
	"os"

	"uzpay/receipt-parser/internal/logging"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Store is the reference-store boundary the resolver loads its rules from.
type Store interface {
	// LoadRules returns all mapping rules, active or not. Ordering and
	// filtering are the resolver's concern.
	LoadRules() ([]Rule, error)
}

// rulesFile is the on-disk YAML document shape.
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// YAMLRuleStore loads and saves mapping rules from a YAML file. It also
// supports bulk-importing rules from a CSV export of the administrative
// reference table.
type YAMLRuleStore struct {
	Path   string
	logger logging.Logger
}

// NewYAMLRuleStore creates a rule store backed by the YAML file at path.
func NewYAMLRuleStore(path string, logger logging.Logger) *YAMLRuleStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &YAMLRuleStore{Path: path, logger: logger}
}

// LoadRules implements Store. A missing file is an empty rule set, not an
// error, so a fresh installation starts with no mappings.
func (s *YAMLRuleStore) LoadRules() ([]Rule, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("file", s.Path).Warn("Rules file not found, starting with empty rule set")
			return nil, nil
		}
		return nil, fmt.Errorf("could not read rules file: %w", err)
	}

	var doc rulesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse rules file: %w", err)
	}

	s.logger.Info("Loaded mapping rules",
		logging.Field{Key: "file", Value: s.Path},
		logging.Field{Key: "count", Value: len(doc.Rules)})
	return doc.Rules, nil
}

// SaveRules writes the full rule set back to the YAML file.
func (s *YAMLRuleStore) SaveRules(rules []Rule) error {
	data, err := yaml.Marshal(&rulesFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("could not marshal rules: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("could not write rules file: %w", err)
	}
	s.logger.Info("Saved mapping rules",
		logging.Field{Key: "file", Value: s.Path},
		logging.Field{Key: "count", Value: len(rules)})
	return nil
}

// csvRuleRow mirrors one row of the administrative CSV export.
type csvRuleRow struct {
	Pattern         string `csv:"pattern"`
	ApplicationName string `csv:"app_name"`
	Priority        int    `csv:"priority"`
}

// ImportCSV merges rules from a CSV file into the store. Rows are matched on
// pattern: an existing rule is updated in place, a new one is appended as
// active. Returns the number of rows imported.
func (s *YAMLRuleStore) ImportCSV(csvPath string) (int, error) {
	f, err := os.Open(csvPath) // #nosec G304 -- CLI tool takes user-provided file paths
	if err != nil {
		return 0, fmt.Errorf("could not open CSV file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	var rows []*csvRuleRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return 0, fmt.Errorf("could not parse CSV file: %w", err)
	}

	existing, err := s.LoadRules()
	if err != nil {
		return 0, err
	}

	byPattern := make(map[string]int, len(existing))
	for i, r := range existing {
		byPattern[r.Pattern] = i
	}

	imported := 0
	for _, row := range rows {
		if row.Pattern == "" || row.ApplicationName == "" {
			s.logger.Warn("Skipping CSV row with empty pattern or application name")
			continue
		}
		rule := Rule{
			Pattern:         row.Pattern,
			ApplicationName: row.ApplicationName,
			Priority:        row.Priority,
			IsActive:        true,
		}
		if i, ok := byPattern[row.Pattern]; ok {
			existing[i] = rule
		} else {
			byPattern[row.Pattern] = len(existing)
			existing = append(existing, rule)
		}
		imported++
	}

	if err := s.SaveRules(existing); err != nil {
		return 0, err
	}
	return imported, nil
}
