// Package parse handles the single-message parse command
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"uzpay/receipt-parser/cmd/root"
	"uzpay/receipt-parser/internal/parsererror"

	"github.com/spf13/cobra"
)

var (
	text string
	file string
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse one notification message into a structured transaction",
	Long: `Parse a raw payment notification given via --text, --file or stdin
and print the structured transaction record as JSON.`,
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&text, "text", "t", "", "Notification text to parse")
	Cmd.Flags().StringVarP(&file, "file", "f", "", "File containing the notification text")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	raw, err := readInput()
	if err != nil {
		return err
	}

	tx, err := root.App.GetPipeline().Process(cmd.Context(), raw)
	if err != nil {
		var noExtraction *parsererror.NoExtractionError
		if errors.As(err, &noExtraction) {
			root.Log.WithError(err).Error("Could not parse notification")
			return fmt.Errorf("could not parse")
		}
		return err
	}

	out, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func readInput() (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file) // #nosec G304 -- CLI tool takes user-provided file paths
		if err != nil {
			return "", fmt.Errorf("could not read input file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("could not read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("no input: provide --text, --file or pipe text to stdin")
		}
		return string(data), nil
	}
}
