// Package rules handles administration of the counterparty mapping rules
package rules

import (
	"fmt"

	"uzpay/receipt-parser/cmd/root"

	"github.com/spf13/cobra"
)

var (
	label   string
	csvFile string
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage counterparty mapping rules",
	Long: `Inspect, test and bulk-import the rules that map raw counterparty
labels to canonical application names.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all mapping rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := root.App.GetRuleStore().LoadRules()
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No mapping rules configured")
			return nil
		}
		for _, r := range rules {
			active := "active"
			if !r.IsActive {
				active = "inactive"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-30s -> %-20s priority=%d (%s)\n",
				r.Pattern, r.ApplicationName, r.Priority, active)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a counterparty label against the rule table",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, ok := root.App.GetResolver().Resolve(label)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No mapping found for '%s'\n", label)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", label, name)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-import mapping rules from a CSV file",
	Long: `Import rules from a CSV export of the administrative reference table
(columns: pattern, app_name, priority). Existing rules are updated by
pattern, new ones are appended as active.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := root.App.GetRuleStore().ImportCSV(csvFile)
		if err != nil {
			return err
		}
		if err := root.App.GetResolver().Refresh(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rules\n", count)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&label, "label", "l", "", "Counterparty label to resolve")
	_ = resolveCmd.MarkFlagRequired("label")

	importCmd.Flags().StringVarP(&csvFile, "input", "i", "", "CSV file to import")
	_ = importCmd.MarkFlagRequired("input")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(resolveCmd)
	Cmd.AddCommand(importCmd)
}
