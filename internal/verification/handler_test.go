package verification

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/solgate/solgate/internal/solana"
)

func setupHandlerApp(t *testing.T, checker *stubChecker) (*fiber.App, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	store.Seed("u1", "abc123")
	svc := newTestService(store, checker, &stubNotifier{})
	handler := NewHandler(svc)

	app := fiber.New()
	app.Post("/api/v1/verify", handler.Verify)
	return app, store
}

func postVerify(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/verify", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var decoded map[string]string
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode body %q: %v", payload, err)
	}
	return resp, decoded
}

func TestVerifyEndpointSuccess(t *testing.T) {
	app, _ := setupHandlerApp(t, &stubChecker{balances: map[string]float64{testWallet: 2.5}})

	resp, body := postVerify(t, app, `{"publicKey":"`+testWallet+`","token":"abc123"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["message"] != "Verification successful" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestVerifyEndpointInsufficientBalance(t *testing.T) {
	app, store := setupHandlerApp(t, &stubChecker{balances: map[string]float64{}})

	resp, body := postVerify(t, app, `{"publicKey":"`+testWallet+`","token":"abc123"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["message"] != "Insufficient token balance" {
		t.Fatalf("unexpected body %v", body)
	}

	rec, _ := store.Get("abc123")
	if rec.Verified {
		t.Fatalf("expected verified=false recorded")
	}
}

func TestVerifyEndpointMissingInput(t *testing.T) {
	app, _ := setupHandlerApp(t, &stubChecker{})

	resp, body := postVerify(t, app, `{"token":"abc123"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Missing public key or token" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestVerifyEndpointInvalidToken(t *testing.T) {
	app, _ := setupHandlerApp(t, &stubChecker{})

	resp, body := postVerify(t, app, `{"publicKey":"`+testWallet+`","token":"missing"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Invalid token" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestVerifyEndpointInvalidPublicKey(t *testing.T) {
	app, _ := setupHandlerApp(t, &stubChecker{})

	resp, body := postVerify(t, app, `{"publicKey":"not-a-key","token":"abc123"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Invalid public key" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestVerifyEndpointLedgerOutageIsOpaque(t *testing.T) {
	app, store := setupHandlerApp(t, &stubChecker{err: fmt.Errorf("%w: rpc down", solana.ErrLedgerUnavailable)})

	resp, body := postVerify(t, app, `{"publicKey":"`+testWallet+`","token":"abc123"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if body["error"] != "Internal server error" {
		t.Fatalf("outage detail must not leak, got %v", body)
	}

	rec, _ := store.Get("abc123")
	if rec.PublicKey != "" || !rec.VerifiedAt.IsZero() {
		t.Fatalf("record must stay untouched on outage, got %+v", rec)
	}
}
