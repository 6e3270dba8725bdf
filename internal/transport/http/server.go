package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	sloghttp "github.com/samber/slog-http"

	feedService "github.com/slackstats/workstats/internal/modules/feed/service"
	"github.com/slackstats/workstats/internal/modules/report/render"
	reportService "github.com/slackstats/workstats/internal/modules/report/service"
	snapshotService "github.com/slackstats/workstats/internal/modules/snapshot/service"
	"github.com/slackstats/workstats/internal/shared/config"
	sharederrors "github.com/slackstats/workstats/internal/shared/errors"
	"github.com/slackstats/workstats/internal/slack"
)

// maxBodySize bounds inbound event payloads
const maxBodySize = 1 << 20

// runTimeout is the deadline propagated through a triggered report run
const runTimeout = 10 * time.Minute

// Server receives Slack events and interactive actions and serves the
// report feed.
type Server struct {
	cfg       *config.Config
	client    *slack.Client
	report    *reportService.Service
	snapshots *snapshotService.Service
	feed      *feedService.Service
	verifier  *slack.SignatureVerifier
	logger    *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, client *slack.Client, report *reportService.Service, snapshots *snapshotService.Service, feed *feedService.Service) *Server {
	return &Server{
		cfg:       cfg,
		client:    client,
		report:    report,
		snapshots: snapshots,
		feed:      feed,
		verifier:  slack.NewSignatureVerifier(cfg.SlackSigningSecret),
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.cfg.SlackSigningSecret == "" {
		return sharederrors.ErrMissingSigningSecret
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /slack/events", s.handleEvents)
	mux.HandleFunc("POST /slack/interactions", s.handleInteractions)
	mux.HandleFunc("GET /feed", s.handleFeed)
	mux.HandleFunc("GET /health", s.handleHealth)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Event server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// eventEnvelope is the events API payload
type eventEnvelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type    string `json:"type"`
		Subtype string `json:"subtype"`
		Text    string `json:"text"`
		User    string `json:"user"`
		Channel string `json:"channel"`
		BotID   string `json:"bot_id"`
	} `json:"event"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case "url_verification":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"challenge": envelope.Challenge})
		return
	case "event_callback":
		s.dispatchEvent(envelope)
	}

	// The acknowledgement must succeed regardless of what the triggered
	// work does later.
	w.WriteHeader(http.StatusOK)
}

// dispatchEvent matches message events against the trigger phrases and
// kicks off the matching work in the background.
func (s *Server) dispatchEvent(envelope eventEnvelope) {
	event := envelope.Event
	if event.Type != "message" || event.BotID != "" || event.Subtype != "" {
		return
	}

	switch {
	case strings.Contains(event.Text, "hello"):
		s.logger.Info("Report triggered", "channel", event.Channel, "user", event.User)
		go s.runReport()
	case strings.Contains(event.Text, "goodbye"):
		go s.say(event.Channel, "See you later!")
	}
}

// runReport is the error boundary for triggered report runs: failures are
// logged and nothing is posted.
func (s *Server) runReport() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := s.report.Run(ctx); err != nil {
		s.logger.Error("Report run failed", "error", err)
	}
}

// interactionPayload is the interactive-component callback payload
type interactionPayload struct {
	Type string `json:"type"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
	Actions []struct {
		ActionID string `json:"action_id"`
	} `json:"actions"`
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	var payload interactionPayload
	if err := json.Unmarshal([]byte(form.Get("payload")), &payload); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	// Acknowledge first; replies happen in the background
	w.WriteHeader(http.StatusOK)

	for _, action := range payload.Actions {
		switch {
		case action.ActionID == "button_click":
			go s.say(payload.Channel.ID, fmt.Sprintf("<@%s> clicked the button", payload.User.ID))
		case lo.Contains(render.SaveActions, action.ActionID):
			go s.saveSnapshot(payload.Channel.ID, action.ActionID)
		}
	}
}

func (s *Server) saveSnapshot(channel, actionID string) {
	if _, err := s.snapshots.SaveLatest(actionID); err != nil {
		s.logger.Error("Failed to save report snapshot", "action_id", actionID, "error", err)
		return
	}
	s.say(channel, "Report snapshot saved")
}

func (s *Server) say(channel, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.client.PostMessage(ctx, channel, []slack.Block{slack.Section(text)}); err != nil {
		s.logger.Error("Failed to post reply", "channel", channel, "error", err)
	}
}

// verifiedBody reads the request body and checks the request signature,
// writing the failure response itself when verification fails.
func (s *Server) verifiedBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return nil, false
	}

	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")
	if err := s.verifier.Verify(timestamp, signature, body); err != nil {
		s.logger.Warn("Rejected request with bad signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return nil, false
	}
	return body, true
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.feed.Generate(baseURL)
	if err != nil {
		s.logger.Error("Error generating feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
