package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"healsyAPI/internal/insight"
	"healsyAPI/middleware"
	"healsyAPI/services"
)

type InsightHandler struct {
	insightService *services.InsightService
}

func NewInsightHandler(insightService *services.InsightService) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
	}
}

func (h *InsightHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	_, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req insight.AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !insight.ValidTopic(req.Topic) {
		respondWithError(w, http.StatusBadRequest, "topic must be one of: skincare, fitness, nutrition, sleep")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondWithError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	advice, err := h.insightService.GetAdvice(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrInsightNotConfigured) {
			respondWithError(w, http.StatusServiceUnavailable, "AI insights are temporarily unavailable")
			return
		}
		log.Printf("Insight generation failed: %v", err)
		respondWithError(w, http.StatusBadGateway, "Failed to generate advice")
		return
	}

	respondWithJSON(w, http.StatusOK, advice)
}
