package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"healsyAPI/internal/payment"
	"healsyAPI/middleware"
	"healsyAPI/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	subsService    *services.SubscriptionService
	userService    *services.UserService
}

func NewPaymentHandler(paymentService *services.PaymentService, subsService *services.SubscriptionService, userService *services.UserService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		subsService:    subsService,
		userService:    userService,
	}
}

// CreateRazorpayOrder validates the checkout request, creates the
// gateway order and returns what the client needs to open the Razorpay
// checkout widget.
func (h *PaymentHandler) CreateRazorpayOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req payment.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Amount <= 0 {
		respondWithError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	if strings.TrimSpace(req.PlanType) == "" {
		respondWithError(w, http.StatusBadRequest, "plan_type is required")
		return
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	resp, err := h.paymentService.CreateOrder(ctx, u.ID, &req)
	if err != nil {
		h.respondOrderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// respondOrderError maps service errors onto the response contract:
// gateway 400s relay as client errors with the gateway's detail,
// gateway 401s are our misconfiguration and never the user's fault.
func (h *PaymentHandler) respondOrderError(w http.ResponseWriter, err error) {
	var credErr *payment.CredentialsError
	if errors.As(err, &credErr) {
		log.Printf("Razorpay credentials problem: %v", credErr)
		respondWithError(w, http.StatusInternalServerError, "Payment service is not configured. Please contact support.")
		return
	}

	var gwErr *payment.GatewayError
	if errors.As(err, &gwErr) {
		switch gwErr.StatusCode {
		case http.StatusBadRequest:
			respondWithJSON(w, http.StatusBadRequest, map[string]string{
				"error":   gwErr.Message,
				"details": gwErr.Details,
			})
		case http.StatusUnauthorized:
			log.Printf("Razorpay rejected our credentials: %s", gwErr.Details)
			respondWithError(w, http.StatusInternalServerError, "Payment service is misconfigured. Please contact support.")
		default:
			respondWithJSON(w, http.StatusBadGateway, map[string]string{
				"error":   gwErr.Message,
				"details": gwErr.Details,
			})
		}
		return
	}

	respondWithError(w, http.StatusInternalServerError, err.Error())
}

// VerifyRazorpayPayment checks the checkout callback signature and
// activates the purchased plan.
func (h *PaymentHandler) VerifyRazorpayPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req payment.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		respondWithError(w, http.StatusBadRequest, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
		return
	}
	if strings.TrimSpace(req.PlanType) == "" {
		respondWithError(w, http.StatusBadRequest, "plan_type is required")
		return
	}

	err := h.paymentService.VerifyPayment(ctx, clerkID, &req, h.subsService)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			respondWithError(w, http.StatusBadRequest, "Payment verification failed")
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			var credErr *payment.CredentialsError
			if errors.As(err, &credErr) {
				log.Printf("Razorpay credentials problem: %v", credErr)
				respondWithError(w, http.StatusInternalServerError, "Payment service is not configured. Please contact support.")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}
