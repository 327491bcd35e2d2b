package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healsyAPI/internal/insight"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubInference(t *testing.T, adviceJSON string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NotEmpty(t, r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req, "generationConfig")

		resp := map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"parts": []map[string]any{{"text": adviceJSON}},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func testInsightService(baseURL string) *InsightService {
	return &InsightService{
		apiKey:  "test-key",
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
	}
}

func TestGetAdvice_ParsesStructuredResponse(t *testing.T) {
	srv := stubInference(t, `{"summary": "Hydrate more", "recommendations": ["Drink water on waking", "Carry a bottle"], "cautions": ["See a doctor for persistent symptoms"]}`)
	defer srv.Close()

	s := testInsightService(srv.URL)
	advice, err := s.GetAdvice(context.Background(), &insight.AdviceRequest{
		Topic:  insight.TopicSkincare,
		Prompt: "My skin feels dry in winter",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hydrate more", advice.Summary)
	assert.Len(t, advice.Recommendations, 2)
	assert.Len(t, advice.Cautions, 1)
}

func TestGetAdvice_MalformedModelOutput(t *testing.T) {
	srv := stubInference(t, `here is some advice, not JSON`)
	defer srv.Close()

	s := testInsightService(srv.URL)
	_, err := s.GetAdvice(context.Background(), &insight.AdviceRequest{
		Topic:  insight.TopicSleep,
		Prompt: "I cannot fall asleep",
	})

	assert.Error(t, err)
}

func TestGetAdvice_NotConfigured(t *testing.T) {
	s := &InsightService{client: http.DefaultClient}

	_, err := s.GetAdvice(context.Background(), &insight.AdviceRequest{
		Topic:  insight.TopicFitness,
		Prompt: "Build a routine",
	})

	assert.ErrorIs(t, err, ErrInsightNotConfigured)
}

func TestGetAdvice_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer srv.Close()

	s := testInsightService(srv.URL)
	_, err := s.GetAdvice(context.Background(), &insight.AdviceRequest{
		Topic:  insight.TopicNutrition,
		Prompt: "Plan my meals",
	})

	assert.Error(t, err)
}

func TestValidTopic(t *testing.T) {
	assert.True(t, insight.ValidTopic(insight.TopicSkincare))
	assert.True(t, insight.ValidTopic(insight.TopicSleep))
	assert.False(t, insight.ValidTopic(insight.Topic("astrology")))
	assert.False(t, insight.ValidTopic(insight.Topic("")))
}
