package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pandodao/walletflow/controller/send"
	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/metrics"
	"github.com/pandodao/walletflow/service/transfer"
	tokenstore "github.com/pandodao/walletflow/store/token"
	"github.com/shopspring/decimal"
)

const address = "0x1234567890123456789012345678901234567890"

func newServer(t *testing.T, cfg transfer.Config) http.Handler {
	t.Helper()

	tokens := tokenstore.New()
	err := tokens.Save(context.Background(), []*core.TokenRef{
		{Symbol: "XL3", Name: "XL3 Token", Balance: "100.50", USDValue: decimal.NewFromInt(2), Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Balance: "10", Decimals: 6},
	})
	if err != nil {
		t.Fatal(err)
	}

	s := New(
		tokens,
		transfer.Dedupe(transfer.NewSimulated(cfg)),
		metrics.NoopRecorder{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		send.Config{SuccessWindow: time.Second, MemoLimit: 200},
	)

	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}

	return rec.Code, out
}

func TestListTokens(t *testing.T) {
	h := newServer(t, transfer.Config{})

	tests := []struct {
		path  string
		count int
	}{
		{"/tokens", 2},
		{"/tokens?q=coin", 1},
		{"/tokens?q=xl", 1},
		{"/tokens?q=btc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, out := do(t, h, http.MethodGet, tt.path, "")
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}

			tokens, _ := out["tokens"].([]any)
			if len(tokens) != tt.count {
				t.Errorf("got %d tokens, want %d", len(tokens), tt.count)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	h := newServer(t, transfer.Config{})

	tests := []struct {
		address string
		valid   bool
		code    string
	}{
		{address, true, ""},
		{"0x123", false, "invalid_address_format"},
		{"", false, "missing_recipient"},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			code, out := do(t, h, http.MethodPost, "/addresses/validate", `{"address":"`+tt.address+`"}`)
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}

			if out["valid"] != tt.valid {
				t.Errorf("valid = %v", out["valid"])
			}

			if tt.code != "" && out["code"] != tt.code {
				t.Errorf("code = %v, want %s", out["code"], tt.code)
			}

			if tt.valid && out["short"] != "0x1234...7890" {
				t.Errorf("short = %v", out["short"])
			}
		})
	}
}

func TestPayments(t *testing.T) {
	h := newServer(t, transfer.Config{})

	code, out := do(t, h, http.MethodPost, "/payments/encode", `{"address":"`+address+`","amount":"25.5","token":"XL3"}`)
	if code != http.StatusOK {
		t.Fatalf("encode status = %d, %v", code, out)
	}

	payload, _ := json.Marshal(map[string]any{"payload": out["payload"]})
	code, out = do(t, h, http.MethodPost, "/payments/decode", string(payload))
	if code != http.StatusOK {
		t.Fatalf("decode status = %d, %v", code, out)
	}

	if want := "/send?amount=25.5&recipient=" + address + "&token=XL3"; out["path"] != want {
		t.Errorf("path = %v, want %s", out["path"], want)
	}

	code, out = do(t, h, http.MethodPost, "/payments/decode", `{"payload":"hello"}`)
	if code != http.StatusUnprocessableEntity || out["message"] != "Invalid QR code format. Please try again." {
		t.Errorf("bad payload = %d, %v", code, out)
	}

	code, _ = do(t, h, http.MethodPost, "/payments/encode", `{"address":"0x1","amount":"1","token":"XL3"}`)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("encode invalid status = %d", code)
	}
}

func TestCreateSend(t *testing.T) {
	t.Run("submitted", func(t *testing.T) {
		h := newServer(t, transfer.Config{})
		code, out := do(t, h, http.MethodPost, "/sends", `{"recipient":"`+address+`","amount":"50","token":"XL3"}`)
		if code != http.StatusOK {
			t.Fatalf("status = %d, %v", code, out)
		}

		receipt, _ := out["receipt"].(map[string]any)
		if hash, _ := receipt["tx_hash"].(string); len(hash) != 66 {
			t.Errorf("receipt = %v", receipt)
		}
	})

	t.Run("max", func(t *testing.T) {
		h := newServer(t, transfer.Config{})
		code, out := do(t, h, http.MethodPost, "/sends", `{"recipient":"`+address+`","token":"usdc","max":true}`)
		if code != http.StatusOK {
			t.Fatalf("status = %d, %v", code, out)
		}

		tr, _ := out["transfer"].(map[string]any)
		if tr["amount"] != "10" || tr["token"] != "USDC" {
			t.Errorf("transfer = %v", tr)
		}
	})

	t.Run("invalid form lists every field", func(t *testing.T) {
		h := newServer(t, transfer.Config{})
		code, out := do(t, h, http.MethodPost, "/sends", `{"token":"XL3"}`)
		if code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", code)
		}

		fields, _ := out["fields"].(map[string]any)
		if len(fields) != 2 || fields["recipient"] != "Recipient address is required" || fields["amount"] != "Amount is required" {
			t.Errorf("fields = %v", fields)
		}
	})

	t.Run("insufficient balance", func(t *testing.T) {
		h := newServer(t, transfer.Config{})
		code, out := do(t, h, http.MethodPost, "/sends", `{"recipient":"`+address+`","amount":"200","token":"XL3"}`)
		fields, _ := out["fields"].(map[string]any)
		if code != http.StatusUnprocessableEntity || fields["amount"] != "Insufficient balance" {
			t.Errorf("status = %d, %v", code, out)
		}
	})

	t.Run("out of range amount", func(t *testing.T) {
		h := newServer(t, transfer.Config{})
		for _, amount := range []string{"1e-20000000", "1e20000000"} {
			code, out := do(t, h, http.MethodPost, "/sends", `{"recipient":"`+address+`","amount":"`+amount+`","token":"XL3"}`)
			fields, _ := out["fields"].(map[string]any)
			if code != http.StatusUnprocessableEntity || fields["amount"] != "Amount must be a number" {
				t.Errorf("amount %s: status = %d, %v", amount, code, out)
			}
		}
	})

	t.Run("client gone before submission ends", func(t *testing.T) {
		h := newServer(t, transfer.Config{Latency: 20 * time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req := httptest.NewRequest(http.MethodPost, "/sends", strings.NewReader(`{"recipient":"`+address+`","amount":"1","token":"XL3"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req.WithContext(ctx))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		h := newServer(t, transfer.Config{})
		code, out := do(t, h, http.MethodPost, "/sends", `{"recipient":"`+address+`","amount":"1","token":"DOGE"}`)
		if code != http.StatusBadRequest || out["code"] != "unknown_token" {
			t.Errorf("status = %d, %v", code, out)
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		h := newServer(t, transfer.Config{Reject: true})
		code, out := do(t, h, http.MethodPost, "/sends", `{"recipient":"`+address+`","amount":"1","token":"XL3"}`)
		if code != http.StatusBadGateway || out["code"] != "submission_failed" {
			t.Errorf("status = %d, %v", code, out)
		}
	})

	t.Run("idempotency key", func(t *testing.T) {
		h := newServer(t, transfer.Config{})
		req := httptest.NewRequest(http.MethodPost, "/sends", strings.NewReader(`{"recipient":"`+address+`","amount":"1","token":"XL3"}`))
		req.Header.Set("Idempotency-Key", "k1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
			t.Errorf("status = %d, content type %q", rec.Code, rec.Header().Get("Content-Type"))
		}
	})
}
