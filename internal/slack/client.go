package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/oops"
)

// DefaultAPIURL is the production Slack API base
const DefaultAPIURL = "https://slack.com/api"

// Client is a minimal Slack Web API client. Discovery endpoints are read
// with the user token, message posting uses the bot token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	userToken  string
}

// New creates a new Slack API client
func New(baseURL, botToken, userToken string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		botToken:   botToken,
		userToken:  userToken,
	}
}

// apiResponse is the envelope every Slack API response carries
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// get issues a bearer-token GET against an API method and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, method, token string, params url.Values, out any) error {
	endpoint := c.baseURL + "/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return oops.With("method", method).Wrap(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return oops.With("method", method, "context", "request failed").Wrap(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return oops.With("method", method, "context", "reading response body").Wrap(err)
	}
	if resp.StatusCode != http.StatusOK {
		return oops.With("method", method, "status", resp.StatusCode).Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return oops.With("method", method, "context", "decoding response envelope").Wrap(err)
	}
	if !envelope.OK {
		return oops.With("method", method).Errorf("Slack API error: %s", envelope.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return oops.With("method", method, "context", "decoding response").Wrap(err)
	}
	return nil
}

// postMessageRequest is the chat.postMessage request body
type postMessageRequest struct {
	Channel string  `json:"channel"`
	Blocks  []Block `json:"blocks"`
}

// PostMessage posts a block message to a channel using the bot token
func (c *Client) PostMessage(ctx context.Context, channel string, blocks []Block) error {
	payload, err := json.Marshal(postMessageRequest{Channel: channel, Blocks: blocks})
	if err != nil {
		return oops.With("channel", channel).Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(payload))
	if err != nil {
		return oops.With("channel", channel).Wrap(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return oops.With("channel", channel, "context", "posting message").Wrap(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return oops.With("channel", channel, "context", "reading response body").Wrap(err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return oops.With("channel", channel, "context", "decoding response").Wrap(err)
	}
	if !envelope.OK {
		return oops.With("channel", channel).Errorf("Slack API error: %s", envelope.Error)
	}
	return nil
}
