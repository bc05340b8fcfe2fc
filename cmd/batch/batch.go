// Package batch handles the bulk parse command
package batch

import (
	"fmt"
	"os"

	"uzpay/receipt-parser/cmd/root"
	"uzpay/receipt-parser/internal/batch"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Parse a dump of notification messages and export them as CSV",
	Long: `Parse a text file containing many notification messages separated by
blank lines and write the parsed transactions to a CSV file. Messages
that cannot be parsed are reported and skipped.`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "File with notification messages, blank-line separated")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "CSV file to write")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("output")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(inputFile) // #nosec G304 -- CLI tool takes user-provided file paths
	if err != nil {
		return fmt.Errorf("could not read input file: %w", err)
	}

	messages := batch.SplitMessages(string(data))
	if len(messages) == 0 {
		return fmt.Errorf("no messages found in %s", inputFile)
	}

	processor := batch.NewProcessor(root.App.GetPipeline(), nil)
	result := processor.ProcessAll(cmd.Context(), messages)

	if err := batch.ExportCSV(result.Transactions, outputFile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d of %d messages into %s\n",
		len(result.Transactions), len(messages), outputFile)
	for _, f := range result.Failures {
		fmt.Fprintf(cmd.OutOrStdout(), "  message %d skipped: %s\n", f.Index+1, f.Snippet)
	}
	return nil
}
