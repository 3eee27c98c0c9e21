package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

const extractionPrompt = `Analiza esta imagen de un extracto bancario, movimientos de cuenta, o SMS de notificación bancaria colombiana.

Extrae TODAS las transacciones individuales visibles y devuelve ÚNICAMENTE un JSON válido con este formato exacto (sin texto adicional, solo el JSON):
{
  "transactions": [
    {
      "type": "expense",
      "amount": 45000,
      "description": "Compra en Restaurante XYZ",
      "date": "2024-01-15",
      "merchant": "Restaurante XYZ",
      "confidence": 0.95
    }
  ],
  "source_type": "bank_statement",
  "bank_detected": "Bancolombia"
}

REGLAS IMPORTANTES:
1. Moneda es COP (pesos colombianos) - convierte el monto a número sin puntos ni comas
2. "Compra", "Retiro", "Pago", "Débito", "Transferencia enviada" = type "expense"
3. "Abono", "Consignación", "Transferencia recibida", "Depósito", "Nómina" = type "income"
4. IGNORA los saldos (inicial, final, disponible), solo extrae transacciones individuales
5. Si la fecha no es visible, usa null
6. source_type puede ser: "bank_statement", "sms", "receipt", "unknown"
7. Si NO puedes detectar ninguna transacción válida, devuelve: {"transactions": [], "source_type": "unknown", "bank_detected": null}
8. El campo amount debe ser un NÚMERO, no string (ej: 45000 no "45000" ni "$45.000")
9. Cada transacción debe tener un confidence entre 0.0 y 1.0

RESPONDE SOLO CON EL JSON, sin explicaciones ni texto adicional.`

// GeminiExtractor extracts transactions from images using the Gemini vision
// model.
type GeminiExtractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiExtractor creates an extractor using the given API key and model
// name (empty for the default).
func NewGeminiExtractor(ctx context.Context, apiKey, modelName string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key not set", common.ErrMissingConfig)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiExtractor{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close releases the underlying API client.
func (g *GeminiExtractor) Close() error {
	return g.client.Close()
}

// ExtractTransactions sends the image to the vision model and parses the
// JSON it returns into candidate transactions.
func (g *GeminiExtractor) ExtractTransactions(ctx context.Context, image []byte, mimeType string) (*Extraction, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image cannot be empty", common.ErrInvalidInput)
	}

	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData(imageFormat(mimeType), image),
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: model returned no text", common.ErrExtractionFailed)
	}

	extraction, err := parseExtraction(text)
	if err != nil {
		return nil, err
	}

	slog.Info("extracted transactions from image",
		"count", len(extraction.Transactions),
		"source_type", extraction.SourceType,
		"bank", extraction.BankDetected)
	return extraction, nil
}

// imageFormat maps a MIME type to the format string genai expects.
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(strings.ToLower(mimeType), "image/")
	if format == "" || format == mimeType {
		return "jpeg"
	}
	return format
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

var jsonFenceRegex = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// rawTransaction mirrors the JSON contract of the vision prompt. Amount is
// decoded loosely because models sometimes return it as a string anyway.
type rawTransaction struct {
	Type        string  `json:"type"`
	Amount      any     `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Merchant    string  `json:"merchant"`
	Confidence  float64 `json:"confidence"`
}

type rawExtraction struct {
	Transactions []rawTransaction `json:"transactions"`
	SourceType   string           `json:"source_type"`
	BankDetected string           `json:"bank_detected"`
}

// parseExtraction parses the model's reply, tolerating markdown code fences
// around the JSON.
func parseExtraction(text string) (*Extraction, error) {
	jsonStr := strings.TrimSpace(text)
	if m := jsonFenceRegex.FindStringSubmatch(jsonStr); m != nil {
		jsonStr = strings.TrimSpace(m[1])
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON from model: %v", common.ErrExtractionFailed, err)
	}

	extraction := &Extraction{
		SourceType:   raw.SourceType,
		BankDetected: raw.BankDetected,
	}

	for i, tx := range raw.Transactions {
		direction := model.CategoryDirection(tx.Type)
		if !direction.Valid() {
			slog.Warn("skipping extracted transaction with unknown type",
				"index", i, "type", tx.Type)
			continue
		}

		amount, err := parseAmount(tx.Amount)
		if err != nil {
			slog.Warn("skipping extracted transaction with unparseable amount",
				"index", i, "amount", tx.Amount, "error", err)
			continue
		}

		extraction.Transactions = append(extraction.Transactions, model.MatchCandidate{
			Description: strings.TrimSpace(tx.Description),
			Merchant:    strings.TrimSpace(tx.Merchant),
			Date:        tx.Date,
			Direction:   direction,
			Amount:      amount,
			Confidence:  tx.Confidence,
		})
	}

	return extraction, nil
}

var nonNumericRegex = regexp.MustCompile(`[^\d.\-]`)

// parseAmount accepts the number the prompt asks for, but also survives
// strings like "$45.000" the way the original review UI did.
func parseAmount(v any) (decimal.Decimal, error) {
	switch value := v.(type) {
	case float64:
		return decimal.NewFromFloat(value), nil
	case string:
		cleaned := nonNumericRegex.ReplaceAllString(value, "")
		if cleaned == "" {
			return decimal.Zero, fmt.Errorf("no digits in %q", value)
		}
		return decimal.NewFromString(cleaned)
	case json.Number:
		return decimal.NewFromString(value.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}
