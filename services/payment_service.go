package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"healsyAPI/internal/payment"

	"github.com/jackc/pgx/v5/pgxpool"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

var ErrInvalidSignature = errors.New("payment signature mismatch")

type PaymentService struct {
	db      *pgxpool.Pool
	client  *http.Client
	baseURL string
}

func NewPaymentService(db *pgxpool.Pool) *PaymentService {
	return &PaymentService{
		db:      db,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: razorpayBaseURL,
	}
}

// razorpayCredentials reads the gateway keys from the environment.
// RAZORPAY_KEY_SECRECT is misspelled on purpose: it matches the
// variable name the deployment environment actually defines.
func razorpayCredentials() (keyID, keySecret string, err error) {
	keyID = os.Getenv("RAZORPAY_API_KEY")
	keySecret = os.Getenv("RAZORPAY_KEY_SECRECT")

	if keyID == "" || keySecret == "" {
		return "", "", &payment.CredentialsError{Reason: "RAZORPAY_API_KEY or RAZORPAY_KEY_SECRECT is not set"}
	}
	if !ValidRazorpayKeyID(keyID) {
		return "", "", &payment.CredentialsError{Reason: "RAZORPAY_API_KEY must start with rzp_test_ or rzp_live_"}
	}
	return keyID, keySecret, nil
}

// ValidRazorpayKeyID checks the key prefix Razorpay issues for test and
// live mode keys.
func ValidRazorpayKeyID(keyID string) bool {
	return strings.HasPrefix(keyID, "rzp_test_") || strings.HasPrefix(keyID, "rzp_live_")
}

// AmountInPaise converts a rupee amount to the minor units the gateway
// expects. 499.5 becomes 49950.
func AmountInPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// BuildReceipt constructs the merchant reference attached to the order:
// hlsy_<first-8-of-user-id>_<last-8-digits-of-epoch-ms>. Razorpay caps
// receipts at 40 characters; this shape is always 22.
func BuildReceipt(userID string, now time.Time) string {
	idPart := userID
	if len(idPart) > 8 {
		idPart = idPart[:8]
	}

	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}

	return fmt.Sprintf("hlsy_%s_%s", idPart, ms)
}

type razorpayOrderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayOrder struct {
	ID string `json:"id"`
}

type razorpayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder builds and submits a Razorpay order for the given user.
// There are no retries and no idempotency key; a failed call is simply
// re-submitted by the user, and reconciliation lives with the gateway.
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, req *payment.CreateOrderRequest) (*payment.CreateOrderResponse, error) {
	keyID, keySecret, err := razorpayCredentials()
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	body, err := json.Marshal(razorpayOrderPayload{
		Amount:   AmountInPaise(req.Amount),
		Currency: currency,
		Receipt:  BuildReceipt(userID, time.Now()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.SetBasicAuth(keyID, keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyGatewayError(resp.StatusCode, respBody)
	}

	var order razorpayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	log.Printf("Created Razorpay order %s for user %s (plan %s)", order.ID, userID, req.PlanType)

	return &payment.CreateOrderResponse{
		Success:  true,
		OrderID:  order.ID,
		Amount:   req.Amount,
		Currency: currency,
		KeyID:    keyID,
	}, nil
}

// classifyGatewayError maps Razorpay's status codes onto our error
// model: 400 is the caller's problem, 401 means our keys are wrong and
// must never be blamed on the user.
func classifyGatewayError(status int, body []byte) error {
	detail := string(body)
	var parsed razorpayErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Description != "" {
		detail = parsed.Error.Description
	}

	switch status {
	case http.StatusBadRequest:
		return &payment.GatewayError{
			StatusCode: http.StatusBadRequest,
			Message:    "Payment gateway rejected the order",
			Details:    detail,
		}
	case http.StatusUnauthorized:
		return &payment.GatewayError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Payment gateway authentication failed",
			Details:    detail,
		}
	default:
		return &payment.GatewayError{
			StatusCode: status,
			Message:    "Payment gateway error",
			Details:    detail,
		}
	}
}

// ComputeCheckoutSignature reproduces the signature Razorpay's checkout
// returns after a successful payment: HMAC-SHA256 over
// "<order_id>|<payment_id>" keyed with the API secret.
func ComputeCheckoutSignature(orderID, paymentID, keySecret string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPayment checks the checkout callback signature and, on match,
// activates the purchased plan for the user.
func (s *PaymentService) VerifyPayment(ctx context.Context, clerkID string, req *payment.VerifyPaymentRequest, subsService *SubscriptionService) error {
	_, keySecret, err := razorpayCredentials()
	if err != nil {
		return err
	}

	expected := ComputeCheckoutSignature(req.OrderID, req.PaymentID, keySecret)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		return ErrInvalidSignature
	}

	userID, err := lookupUserID(ctx, s.db, clerkID)
	if err != nil {
		return err
	}

	if _, err := subsService.Activate(ctx, userID, req.PlanType, req.PaymentID); err != nil {
		return err
	}

	log.Printf("Activated %s for user %s (payment %s)", req.PlanType, userID, req.PaymentID)
	return nil
}
