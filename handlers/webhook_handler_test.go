package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signWebhook(secret, svixID, svixTimestamp, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%s.%s.%s", svixID, svixTimestamp, body)))
	return "v1," + hex.EncodeToString(mac.Sum(nil))
}

func TestClerkWebhook_RejectsBadSignature(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_test")

	h := NewWebhookHandler(nil)

	body := `{"type": "user.created", "data": {"id": "user_1"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(body))
	req.Header.Set("svix-id", "msg_1")
	req.Header.Set("svix-timestamp", "1756380000")
	req.Header.Set("svix-signature", "v1,deadbeef")

	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestClerkWebhook_RejectsMissingSignatureHeaders(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_test")

	h := NewWebhookHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestClerkWebhook_AcceptsValidSignatureForUnhandledEvent(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_test")

	h := NewWebhookHandler(nil)

	body := `{"type": "session.created", "data": {}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(body))
	req.Header.Set("svix-id", "msg_2")
	req.Header.Set("svix-timestamp", "1756380000")
	req.Header.Set("svix-signature", signWebhook("whsec_test", "msg_2", "1756380000", body))

	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
