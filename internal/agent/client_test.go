package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"gold-price-alerts/internal/gateway"
)

func testClient(baseURL string) *Client {
	gw := gateway.New(gateway.Options{}, nil, gateway.Hooks{}, zerolog.Nop())
	return NewClient(Options{BaseURL: baseURL}, gw, zerolog.Nop())
}

func TestInvokeSuccess(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/agents/invoke" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"success":true,"session_id":"sess-1","response":{"result":{"summary":"ok"}}}`))
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Invoke(context.Background(), "check gold", "gold-price-manager")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp == nil || !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.SessionID != "sess-1" {
		t.Fatalf("session = %q", resp.SessionID)
	}
	if received["message"] != "check gold" || received["agent_id"] != "gold-price-manager" {
		t.Fatalf("request payload = %v", received)
	}

	result := resp.NormalizedResult()
	if result == nil || result.Summary != "ok" {
		t.Fatalf("normalized = %#v", result)
	}
}

func TestInvokeDomainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"agent not found"}`))
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Invoke(context.Background(), "m", "missing")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.Success || resp.Error != "agent not found" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestInvokeTransportFailureYieldsNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Invoke(context.Background(), "m", "a")
	if err != nil {
		t.Fatalf("handled transport failure should not error: %v", err)
	}
	if resp != nil {
		t.Fatalf("resp = %+v, want nil", resp)
	}
}

func TestNormalizedResultStringPayload(t *testing.T) {
	resp := &InvokeResponse{
		Success:  true,
		Response: &InvokePayload{Result: json.RawMessage(`"the price is fine {\"summary\":\"steady\"}"`)},
	}
	result := resp.NormalizedResult()
	if result == nil || result.Summary != "steady" {
		t.Fatalf("normalized = %#v", result)
	}
}
