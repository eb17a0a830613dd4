package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakePrompter struct {
	accept  bool
	reasons []string
}

func (p *fakePrompter) ConfirmReload(reason string) bool {
	p.reasons = append(p.reasons, reason)
	return p.accept
}

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestDoSuccessReturnsRawResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("request id header should be set")
		}
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	client := New(Options{}, nil, Hooks{}, noopLogger())

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	result := client.Do(req)

	if result.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", result.Outcome)
	}
	// Sub-500 statuses are the caller's problem to interpret.
	if result.Response.StatusCode != http.StatusTeapot {
		t.Fatalf("status = %d", result.Response.StatusCode)
	}
	result.Response.Body.Close()
}

func TestDoServerErrorPromptDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	prompter := &fakePrompter{}
	reloaded := false
	client := New(Options{}, prompter, Hooks{Reload: func() { reloaded = true }}, noopLogger())

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	result := client.Do(req)

	if result.Outcome != OutcomeServerError {
		t.Fatalf("outcome = %s, want server_error", result.Outcome)
	}
	if result.Response != nil {
		t.Fatal("handled failure should carry no response")
	}
	if len(prompter.reasons) != 1 || !strings.Contains(prompter.reasons[0], "erroring") {
		t.Fatalf("prompter reasons = %v", prompter.reasons)
	}
	if reloaded {
		t.Fatal("declined prompt must not reload")
	}
}

func TestDoServerErrorPromptAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	reloaded := false
	client := New(Options{}, &fakePrompter{accept: true}, Hooks{Reload: func() { reloaded = true }}, noopLogger())

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	client.Do(req)

	if !reloaded {
		t.Fatal("accepted prompt should trigger the reload hook")
	}
}

func TestDoNetworkErrorDistinctMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	prompter := &fakePrompter{}
	client := New(Options{}, prompter, Hooks{}, noopLogger())

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	result := client.Do(req)

	if result.Outcome != OutcomeNetworkError {
		t.Fatalf("outcome = %s, want network_error", result.Outcome)
	}
	if len(prompter.reasons) != 1 || !strings.Contains(prompter.reasons[0], "connect") {
		t.Fatalf("prompter reasons = %v", prompter.reasons)
	}
}

func TestDoRedirectNavigatesAndSwallows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	}))
	defer srv.Close()

	var navigated string
	client := New(Options{}, &fakePrompter{accept: true}, Hooks{
		Navigate: func(target string) { navigated = target },
		Reload:   func() { t.Error("redirect must not consult the reload prompt") },
	}, noopLogger())

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	result := client.Do(req)

	if result.Outcome != OutcomeRedirected {
		t.Fatalf("outcome = %s, want redirected", result.Outcome)
	}
	if navigated != "/login" {
		t.Fatalf("navigate target = %q", navigated)
	}
}

func TestDoJSONSwallowedFailureReportsNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(Options{}, &fakePrompter{}, Hooks{}, noopLogger())

	var out map[string]any
	ok, err := client.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, &out)
	if err != nil {
		t.Fatalf("handled failure should not error: %v", err)
	}
	if ok {
		t.Fatal("handled failure should report no response")
	}
}

func TestDoJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := New(Options{UserAgent: "test"}, nil, Hooks{}, noopLogger())

	var out struct {
		Success bool `json:"success"`
	}
	ok, err := client.DoJSON(context.Background(), http.MethodPost, srv.URL, map[string]string{"k": "v"}, &out)
	if err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if !ok || !out.Success {
		t.Fatalf("ok=%v out=%+v", ok, out)
	}
}
