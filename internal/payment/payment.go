package payment

import "fmt"

type CreateOrderRequest struct {
	Amount   float64 `json:"amount"`
	PlanType string  `json:"plan_type"`
	Currency string  `json:"currency,omitempty"`
}

type CreateOrderResponse struct {
	Success  bool    `json:"success"`
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"keyId"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	PlanType  string `json:"plan_type"`
}

// GatewayError carries the classification of a failed Razorpay call so
// the handler can pick the relayed status code. Details holds the
// gateway's own error description for diagnostics.
type GatewayError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("razorpay: %s (status %d): %s", e.Message, e.StatusCode, e.Details)
}

// CredentialsError indicates missing or malformed gateway credentials
// on our side, never a caller mistake.
type CredentialsError struct {
	Reason string
}

func (e *CredentialsError) Error() string {
	return "payment gateway credentials: " + e.Reason
}
