package voicedraft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cradlelog/cradlelog/pkg/event"
	"github.com/cradlelog/cradlelog/pkg/eventtype"
)

const anthropicAPI = "https://api.anthropic.com/v1/messages"

// AnthropicParser parses caregiving notes into event drafts via the
// Anthropic messages API.
type AnthropicParser struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewAnthropicParser(apiKey, model string) (*AnthropicParser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is not configured")
	}
	return &AnthropicParser{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (p *AnthropicParser) Parse(ctx context.Context, text string, localTime time.Time) (Result, error) {
	prompt := buildPrompt(text, localTime)

	raw, err := p.callAPI(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("api call: %w", err)
	}

	return parseResponse(raw)
}

func buildPrompt(text string, localTime time.Time) string {
	var sb strings.Builder

	sb.WriteString("Extract one caregiving event from this note. Return JSON only.\n\n")
	sb.WriteString("Note:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nThe caregiver's current local time is ")
	sb.WriteString(localTime.Format(time.RFC3339))
	sb.WriteString("; resolve relative times like \"an hour ago\" against it.\n\n")

	sb.WriteString("Valid event types:\n")
	for _, t := range eventtype.All() {
		sb.WriteString("- ")
		sb.WriteString(string(t))
		sb.WriteString("\n")
	}

	sb.WriteString(`
Return a JSON object with this structure:
{
  "type": "BOTTLE",
  "startTime": "2024-05-01T14:00:00+02:00",
  "endTime": "2024-05-01T14:20:00+02:00",
  "amountMl": 120,
  "pee": false,
  "poop": true,
  "count": 3,
  "supplement": "vitamin D",
  "notes": "",
  "confidence": 0.9
}

Rules:
- Omit fields the note does not mention; never invent amounts or flags
- Times are RFC3339 with the caregiver's offset
- endTime may be omitted for an activity still in progress
- confidence is 0.0-1.0 for how certain the extraction is

Return ONLY the JSON, no other text.`)

	return sb.String()
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (p *AnthropicParser) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     p.model,
		MaxTokens: 1024,
		Messages:  []apiMessage{{Role: "user", Content: prompt}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPI, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api returned %d: %s", resp.StatusCode, body)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", err
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty api response")
	}
	return apiResp.Content[0].Text, nil
}

type draftJSON struct {
	Type       string  `json:"type"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	AmountML   *int    `json:"amountMl"`
	Pee        *bool   `json:"pee"`
	Poop       *bool   `json:"poop"`
	Count      *int    `json:"count"`
	Supplement string  `json:"supplement"`
	Notes      string  `json:"notes"`
	Confidence float64 `json:"confidence"`
}

func parseResponse(raw string) (Result, error) {
	// Models occasionally wrap the JSON in a code fence.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var parsed draftJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if !eventtype.IsValid(eventtype.Type(parsed.Type)) {
		return Result{}, fmt.Errorf("%w: unknown type %q", ErrUnparseable, parsed.Type)
	}
	startTime, err := time.Parse(time.RFC3339, parsed.StartTime)
	if err != nil {
		return Result{}, fmt.Errorf("%w: bad start time %q", ErrUnparseable, parsed.StartTime)
	}
	var endTime *time.Time
	if parsed.EndTime != "" {
		end, err := time.Parse(time.RFC3339, parsed.EndTime)
		if err != nil {
			return Result{}, fmt.Errorf("%w: bad end time %q", ErrUnparseable, parsed.EndTime)
		}
		endTime = &end
	}

	return Result{
		Draft: Draft{
			Type:      eventtype.Type(parsed.Type),
			StartTime: startTime,
			EndTime:   endTime,
			Fields: event.Fields{
				AmountML:   parsed.AmountML,
				Pee:        parsed.Pee,
				Poop:       parsed.Poop,
				Count:      parsed.Count,
				Supplement: parsed.Supplement,
				Notes:      parsed.Notes,
			},
		},
		Confidence: parsed.Confidence,
	}, nil
}
