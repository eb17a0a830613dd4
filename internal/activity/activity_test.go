package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func streamServer(t *testing.T, events []Event) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, evt := range events {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSubscribeReceivesOrderedEvents(t *testing.T) {
	events := []Event{
		{Type: "thinking", Content: "fetching spot price"},
		{Type: "thinking", Content: "evaluating threshold"},
	}
	srv := streamServer(t, events)
	defer srv.Close()

	sub, err := Subscribe(context.Background(), Options{WSURL: wsURL(srv), DialTimeout: time.Second}, "sess-1", zerolog.Nop())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	if !sub.Connected() {
		t.Fatal("subscription should start connected")
	}

	var got []Event
	for evt := range sub.Events() {
		got = append(got, evt)
	}
	if len(got) != 2 || got[0].Content != "fetching spot price" || got[1].Content != "evaluating threshold" {
		t.Fatalf("events = %+v", got)
	}

	if sub.Connected() {
		t.Fatal("subscription should report disconnected after the stream closes")
	}
}

func TestSubscribeScopesSession(t *testing.T) {
	sessions := make(chan string, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessions <- r.URL.Query().Get("session_id")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	sub, err := Subscribe(context.Background(), Options{WSURL: wsURL(srv), DialTimeout: time.Second}, "sess-42", zerolog.Nop())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	if got := <-sessions; got != "sess-42" {
		t.Fatalf("session query = %q", got)
	}
}

func TestProcessingFlag(t *testing.T) {
	srv := streamServer(t, nil)
	defer srv.Close()

	sub, err := Subscribe(context.Background(), Options{WSURL: wsURL(srv), DialTimeout: time.Second}, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	if sub.Processing() {
		t.Fatal("processing should start false")
	}
	sub.SetProcessing(true)
	if !sub.Processing() {
		t.Fatal("processing should reflect the controlled write")
	}
	sub.SetProcessing(false)
	if sub.Processing() {
		t.Fatal("processing should clear")
	}
}

func TestSubscribeConnectError(t *testing.T) {
	srv := streamServer(t, nil)
	srv.Close()

	if _, err := Subscribe(context.Background(), Options{WSURL: wsURL(srv), DialTimeout: time.Second}, "", zerolog.Nop()); err == nil {
		t.Fatal("dial against a closed server should error")
	}
}
