package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"uzpay/receipt-parser/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// extractionInstruction frames the domain for the model: the target fields,
// the transaction-kind taxonomy and the locale conventions of Uzbek payment
// notifications.
const extractionInstruction = `You are a financial data analyst specialized in Uzbek payment systems.

Analyze the receipt text from Uzbek banks and payment systems (Uzcard, Humo, Click, Payme, etc.) and extract structured transaction data.

Context:
- Amounts are typically in UZS (Uzbek Som), sometimes in USD
- Dates follow DD.MM.YYYY or YY-MM-DD formats
- The counterparty is the payment gateway or merchant (e.g., Payme, Click, Paynet, NBU, SmartBank)
- Card numbers are shown as last 4 digits with asterisks (e.g., ***6714 or *6714)
- Transaction kinds:
  * DEBIT: payments, purchases, withdrawals (Оплата, Pokupka, Spisanie)
  * CREDIT: deposits, refunds (Пополнение, Popolnenie)
  * CONVERSION: currency exchange (Конверсия)
  * REVERSAL: cancellation (OTMENA)

Respond with a single JSON object and nothing else:
{"amount": number, "currency": "UZS", "timestamp": "YYYY-MM-DDTHH:MM:SS", "card_suffix": "last 4 digits or omit", "counterparty": "raw merchant name or omit", "kind": "DEBIT|CREDIT|CONVERSION|REVERSAL", "balance_after": number or omit, "confidence": number between 0.0 and 1.0}

Omit fields that are not present in the text. Provide the confidence score based on data clarity.`

// GeminiClient implements Client against the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient creates a Gemini-backed extraction client.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Pin the temperature low for deterministic extraction output.
	model.SetTemperature(0.1)

	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Extract implements Client.
func (c *GeminiClient) Extract(ctx context.Context, text string) (*Payload, error) {
	prompt := fmt.Sprintf("%s\n\nParse this Uzbek financial receipt:\n\n%s", extractionInstruction, text)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	payload, err := decodePayload(responseText)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("confidence", payload.Confidence).Debug("Gemini extraction succeeded")
	return payload, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// decodePayload parses the model's JSON answer, tolerating markdown fences
// around the object.
func decodePayload(responseText string) (*Payload, error) {
	cleaned := strings.TrimSpace(responseText)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload Payload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("could not decode extraction response: %w", err)
	}
	return &payload, nil
}
