package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"healsyAPI/internal/insight"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	insightModel  = "gemini-1.5-flash"
)

var ErrInsightNotConfigured = errors.New("insight service is not configured")

// InsightService calls the hosted LLM endpoint with a response JSON
// schema and relays the structured advice it returns.
type InsightService struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewInsightService() *InsightService {
	return &InsightService{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: geminiBaseURL,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// adviceSchema constrains the model output so the client can render the
// advice card without free-text parsing.
var adviceSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"summary": {"type": "string"},
		"recommendations": {"type": "array", "items": {"type": "string"}},
		"cautions": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["summary", "recommendations", "cautions"]
}`)

func topicPreamble(t insight.Topic) string {
	switch t {
	case insight.TopicSkincare:
		return "You are a skincare advisor for a consumer wellness app."
	case insight.TopicFitness:
		return "You are a fitness coach for a consumer wellness app."
	case insight.TopicNutrition:
		return "You are a nutrition advisor for a consumer wellness app."
	case insight.TopicSleep:
		return "You are a sleep coach for a consumer wellness app."
	default:
		return "You are a wellness advisor for a consumer wellness app."
	}
}

// GetAdvice asks the model for structured advice on the given topic.
func (s *InsightService) GetAdvice(ctx context.Context, req *insight.AdviceRequest) (*insight.Advice, error) {
	if s.apiKey == "" {
		return nil, ErrInsightNotConfigured
	}

	prompt := fmt.Sprintf(
		"%s Give practical, safe, non-medical advice. Keep recommendations short and actionable.\n\nUser request: %s",
		topicPreamble(req.Topic), req.Prompt,
	)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   adviceSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", s.baseURL, insightModel, s.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference endpoint returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("inference endpoint returned no candidates")
	}

	advice := &insight.Advice{}
	if err := json.Unmarshal([]byte(gen.Candidates[0].Content.Parts[0].Text), advice); err != nil {
		return nil, fmt.Errorf("model returned malformed advice JSON: %w", err)
	}

	return advice, nil
}
