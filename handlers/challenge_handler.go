package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"healsyAPI/internal/challenge"
	"healsyAPI/middleware"
	"healsyAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	progressService  *services.ProgressService
}

func NewChallengeHandler(challengeService *services.ChallengeService, progressService *services.ProgressService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		progressService:  progressService,
	}
}

// GetCatalog serves the challenge catalog. Filters arrive as query
// parameters: q, category, difficulty, premium_only.
func (h *ChallengeHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	f := challenge.CatalogFilter{
		Query:       r.URL.Query().Get("q"),
		Category:    r.URL.Query().Get("category"),
		Difficulty:  r.URL.Query().Get("difficulty"),
		PremiumOnly: r.URL.Query().Get("premium_only") == "true",
	}

	items, err := h.challengeService.GetCatalog(ctx, f)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *ChallengeHandler) StartChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	challengeID, err := uuid.Parse(mux.Vars(r)["challengeID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	p, err := h.challengeService.StartChallenge(ctx, clerkID, challengeID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			respondWithError(w, http.StatusNotFound, "Challenge not found")
		case errors.Is(err, services.ErrPremiumRequired):
			respondWithError(w, http.StatusForbidden, "This challenge requires a premium subscription")
		case errors.Is(err, services.ErrAlreadyStarted):
			respondWithError(w, http.StatusConflict, "Challenge already started")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, p)
}

func (h *ChallengeHandler) GetMyProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	progress, err := h.challengeService.GetMyProgress(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

// CompleteDay advances one challenge by one day. Completing the same
// calendar date twice is a no-op reported as already_completed_today.
func (h *ChallengeHandler) CompleteDay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	progressID, err := uuid.Parse(mux.Vars(r)["progressID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid progress id")
		return
	}

	result, err := h.progressService.CompleteDay(ctx, clerkID, progressID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProgressNotFound):
			respondWithError(w, http.StatusNotFound, "Progress not found")
		case errors.Is(err, services.ErrChallengeIsCompleted):
			respondWithError(w, http.StatusConflict, "Challenge is already completed")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			// Persistence failed; nothing was applied, safe to retry.
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if result.Outcome == challenge.OutcomeDayCompleted || result.Outcome == challenge.OutcomeChallengeCompleted {
		middleware.CountDayCompleted()
	}

	respondWithJSON(w, http.StatusOK, result)
}
