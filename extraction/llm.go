package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/romuloroldao/Black-House-sub001/config"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// LLMProvider extracts plan structure through an OpenAI-compatible chat
// endpoint. Calls are bounded by the client timeout; on any failure the chain
// falls through to the deterministic provider.
type LLMProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewLLMProvider() *LLMProvider {
	timeout := time.Duration(config.GetEnvInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second
	return &LLMProvider{
		apiKey:  config.GetEnv("LLM_API_KEY", ""),
		baseURL: config.GetEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		model:   config.GetEnv("LLM_MODEL", "gpt-4o-mini"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *LLMProvider) Name() string { return "llm" }

const extractionPrompt = `Extract the nutrition plan below into JSON with exactly this shape:
{
  "aluno": {"nome": string, "peso": number|null, "altura": number|null, "idade": number|null, "objetivo": string|null},
  "dieta": {
    "nome": string|null,
    "objetivo": string|null,
    "refeicoes": [{"nome": string, "alimentos": [{"nome": string, "quantidade": string}]}],
    "macros": {"proteina": number|null, "carboidrato": number|null, "gordura": number|null, "calorias": number|null}
  },
  "suplementos": [{"nome": string, "dosagem": string, "observacao": string|null}],
  "medicamentos": [{"nome": string, "dosagem": string, "observacao": string|null}],
  "observacoes": string|null
}
Keep food names exactly as written. Keep quantities as free text (e.g. "100g", "2 unidades").
Use null for anything absent. Return ONLY the JSON object.

Plan:
%s`

// Extract sends the plan text and decodes the model's JSON answer.
func (p *LLMProvider) Extract(ctx context.Context, text string) (map[string]any, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY not configured")
	}

	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a nutrition plan parser. Answer with a single JSON object and nothing else."},
			{Role: "user", Content: fmt.Sprintf(extractionPrompt, text)},
		},
		MaxTokens:   4000,
		Temperature: 0,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	return decodeModelJSON(chatResp.Choices[0].Message.Content)
}

// decodeModelJSON tolerates markdown code fences and prose around the JSON
// object the model was asked for.
func decodeModelJSON(content string) (map[string]any, error) {
	clean := strings.TrimSpace(content)
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```json")
		clean = strings.TrimPrefix(clean, "```")
		clean = strings.TrimSuffix(clean, "```")
		clean = strings.TrimSpace(clean)
	}
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("model answer contains no JSON object")
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(clean[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("model answer is not valid JSON: %w", err)
	}
	return result, nil
}
