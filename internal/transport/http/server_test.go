package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/slackstats/workstats/internal/shared/config"
	"github.com/slackstats/workstats/internal/slack"
)

func newTestServer(client *slack.Client) *Server {
	cfg := &config.Config{SlackSigningSecret: "test-secret"}
	return New(cfg, client, nil, nil, nil)
}

// signedRequest builds a request carrying a valid signature for the body
func signedRequest(t *testing.T, target, body string) *http.Request {
	t.Helper()
	signer := slack.NewSignatureVerifier("test-secret")
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", signer.Sign(timestamp, []byte(body)))
	return req
}

func TestHandleEventsChallenge(t *testing.T) {
	server := newTestServer(nil)

	body := `{"type":"url_verification","challenge":"abc123"}`
	rec := httptest.NewRecorder()
	server.handleEvents(rec, signedRequest(t, "/slack/events", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding challenge response: %v", err)
	}
	if resp["challenge"] != "abc123" {
		t.Errorf("challenge = %q, want abc123", resp["challenge"])
	}
}

func TestHandleEventsRejectsBadSignature(t *testing.T) {
	server := newTestServer(nil)

	body := `{"type":"url_verification","challenge":"abc123"}`
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	req.Header.Set("X-Slack-Signature", "v0=deadbeef")

	rec := httptest.NewRecorder()
	server.handleEvents(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "abc123") {
		t.Errorf("unverified request must not be answered")
	}
}

func TestHandleEventsRejectsMalformedPayload(t *testing.T) {
	server := newTestServer(nil)

	rec := httptest.NewRecorder()
	server.handleEvents(rec, signedRequest(t, "/slack/events", "{not json"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleEventsIgnoresBotMessages(t *testing.T) {
	server := newTestServer(nil)

	// A bot echo containing the trigger phrase must not start a run; with a
	// nil report service a dispatched run would panic.
	body := `{"type":"event_callback","event":{"type":"message","text":"hello","bot_id":"B1","channel":"C1"}}`
	rec := httptest.NewRecorder()
	server.handleEvents(rec, signedRequest(t, "/slack/events", body))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandleInteractionsButtonClick(t *testing.T) {
	posted := make(chan string, 1)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posted <- r.URL.Path
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer backend.Close()

	server := newTestServer(slack.New(backend.URL, "bot-token", "user-token"))

	payload := `{"type":"block_actions","user":{"id":"U1"},"channel":{"id":"C1"},"actions":[{"action_id":"button_click"}]}`
	form := url.Values{"payload": {payload}}
	rec := httptest.NewRecorder()
	server.handleInteractions(rec, signedRequest(t, "/slack/interactions", form.Encode()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	select {
	case path := <-posted:
		if path != "/chat.postMessage" {
			t.Errorf("posted to %s, want /chat.postMessage", path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("button click produced no reply")
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(nil)

	rec := httptest.NewRecorder()
	server.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q, want status ok", rec.Body.String())
	}
}

func TestGetScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	if got := getScheme(req); got != "http" {
		t.Errorf("getScheme() = %q, want http", got)
	}

	req.Header.Set("X-Forwarded-Proto", "https")
	if got := getScheme(req); got != "https" {
		t.Errorf("getScheme() with forwarded proto = %q, want https", got)
	}
}
