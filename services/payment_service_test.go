package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healsyAPI/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountInPaise(t *testing.T) {
	assert.Equal(t, int64(49950), AmountInPaise(499.5))
	assert.Equal(t, int64(100), AmountInPaise(1))
	assert.Equal(t, int64(99900), AmountInPaise(999))
	// Float artifacts must round, not truncate.
	assert.Equal(t, int64(4999), AmountInPaise(49.99))
}

func TestBuildReceipt(t *testing.T) {
	now := time.UnixMilli(1756380000123)
	receipt := BuildReceipt("a1b2c3d4-e5f6-7890-abcd-ef1234567890", now)

	assert.Equal(t, "hlsy_a1b2c3d4_80000123", receipt)
	assert.LessOrEqual(t, len(receipt), 40)
}

func TestBuildReceipt_ShortUserID(t *testing.T) {
	now := time.UnixMilli(1756380000123)
	receipt := BuildReceipt("u42", now)

	assert.Equal(t, "hlsy_u42_80000123", receipt)
}

func TestValidRazorpayKeyID(t *testing.T) {
	assert.True(t, ValidRazorpayKeyID("rzp_test_abc123"))
	assert.True(t, ValidRazorpayKeyID("rzp_live_abc123"))
	assert.False(t, ValidRazorpayKeyID("sk_test_abc123"))
	assert.False(t, ValidRazorpayKeyID(""))
}

func TestComputeCheckoutSignature(t *testing.T) {
	sig := ComputeCheckoutSignature("order_123", "pay_456", "secret")

	// Deterministic and stable; the verify endpoint depends on it.
	assert.Equal(t, ComputeCheckoutSignature("order_123", "pay_456", "secret"), sig)
	assert.NotEqual(t, ComputeCheckoutSignature("order_123", "pay_457", "secret"), sig)
	assert.Len(t, sig, 64)
}

func stubGateway(t *testing.T, status int, body string, capture *map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_abc123", user)

		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func testPaymentService(gatewayURL string) *PaymentService {
	s := NewPaymentService(nil)
	s.baseURL = gatewayURL
	return s
}

func TestCreateOrder_Success(t *testing.T) {
	t.Setenv("RAZORPAY_API_KEY", "rzp_test_abc123")
	t.Setenv("RAZORPAY_KEY_SECRECT", "topsecret")

	var captured map[string]any
	gw := stubGateway(t, http.StatusOK, `{"id": "order_xyz", "status": "created"}`, &captured)
	defer gw.Close()

	s := testPaymentService(gw.URL)
	resp, err := s.CreateOrder(context.Background(), "a1b2c3d4-user", &payment.CreateOrderRequest{
		Amount:   499.5,
		PlanType: "premium_monthly",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "order_xyz", resp.OrderID)
	assert.Equal(t, 499.5, resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "rzp_test_abc123", resp.KeyID)

	assert.Equal(t, float64(49950), captured["amount"])
	assert.Equal(t, "INR", captured["currency"])
	assert.Equal(t, "hlsy_a1b2c3d4", captured["receipt"].(string)[:13])
}

func TestCreateOrder_ExplicitCurrency(t *testing.T) {
	t.Setenv("RAZORPAY_API_KEY", "rzp_test_abc123")
	t.Setenv("RAZORPAY_KEY_SECRECT", "topsecret")

	var captured map[string]any
	gw := stubGateway(t, http.StatusOK, `{"id": "order_usd"}`, &captured)
	defer gw.Close()

	s := testPaymentService(gw.URL)
	resp, err := s.CreateOrder(context.Background(), "user-1", &payment.CreateOrderRequest{
		Amount:   10,
		PlanType: "premium_monthly",
		Currency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "USD", captured["currency"])
}

func TestCreateOrder_MissingCredentials(t *testing.T) {
	t.Setenv("RAZORPAY_API_KEY", "")
	t.Setenv("RAZORPAY_KEY_SECRECT", "")

	s := testPaymentService("http://unused")
	_, err := s.CreateOrder(context.Background(), "user-1", &payment.CreateOrderRequest{Amount: 10, PlanType: "p"})

	var credErr *payment.CredentialsError
	require.ErrorAs(t, err, &credErr)
}

func TestCreateOrder_MalformedKeyID(t *testing.T) {
	t.Setenv("RAZORPAY_API_KEY", "sk_test_wrong_provider")
	t.Setenv("RAZORPAY_KEY_SECRECT", "topsecret")

	s := testPaymentService("http://unused")
	_, err := s.CreateOrder(context.Background(), "user-1", &payment.CreateOrderRequest{Amount: 10, PlanType: "p"})

	var credErr *payment.CredentialsError
	require.ErrorAs(t, err, &credErr)
}

func TestCreateOrder_GatewayBadRequest(t *testing.T) {
	t.Setenv("RAZORPAY_API_KEY", "rzp_test_abc123")
	t.Setenv("RAZORPAY_KEY_SECRECT", "topsecret")

	gw := stubGateway(t, http.StatusBadRequest, `{"error": {"code": "BAD_REQUEST_ERROR", "description": "amount exceeds maximum"}}`, nil)
	defer gw.Close()

	s := testPaymentService(gw.URL)
	_, err := s.CreateOrder(context.Background(), "user-1", &payment.CreateOrderRequest{Amount: 10, PlanType: "p"})

	var gwErr *payment.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "amount exceeds maximum", gwErr.Details)
}

func TestCreateOrder_GatewayUnauthorized(t *testing.T) {
	t.Setenv("RAZORPAY_API_KEY", "rzp_test_abc123")
	t.Setenv("RAZORPAY_KEY_SECRECT", "wrong")

	gw := stubGateway(t, http.StatusUnauthorized, `{"error": {"description": "Authentication failed"}}`, nil)
	defer gw.Close()

	s := testPaymentService(gw.URL)
	_, err := s.CreateOrder(context.Background(), "user-1", &payment.CreateOrderRequest{Amount: 10, PlanType: "p"})

	var gwErr *payment.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
}

func TestCreateOrder_GatewayServerError(t *testing.T) {
	t.Setenv("RAZORPAY_API_KEY", "rzp_test_abc123")
	t.Setenv("RAZORPAY_KEY_SECRECT", "topsecret")

	gw := stubGateway(t, http.StatusInternalServerError, `upstream blew up`, nil)
	defer gw.Close()

	s := testPaymentService(gw.URL)
	_, err := s.CreateOrder(context.Background(), "user-1", &payment.CreateOrderRequest{Amount: 10, PlanType: "p"})

	var gwErr *payment.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
	assert.Equal(t, "upstream blew up", gwErr.Details)
}
