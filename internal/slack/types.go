package slack

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"

	sharederrors "github.com/slackstats/workstats/internal/shared/errors"
)

// User represents a workspace user as returned by discovery.users.list
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	IsOwner bool   `json:"is_owner"`
	IsBot   bool   `json:"is_bot"`
	Deleted bool   `json:"deleted"`
	Created int64  `json:"created"`
}

// Channel represents a workspace channel as returned by discovery.conversations.list
type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

// Reaction represents an emoji reaction attached to a message
type Reaction struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
	Count int      `json:"count"`
}

// Message represents a message as returned by discovery.conversations.history.
// Optional fields are left at their zero value when absent.
type Message struct {
	TS         string     `json:"ts"`
	User       string     `json:"user,omitempty"`
	Text       string     `json:"text,omitempty"`
	ThreadTS   string     `json:"thread_ts,omitempty"`
	ReplyCount int        `json:"reply_count,omitempty"`
	Reactions  []Reaction `json:"reactions,omitempty"`
}

// Time parses the message timestamp ("1700000000.000200") into a time.Time.
// A missing or unparsable timestamp is a malformed record.
func (m Message) Time() (time.Time, error) {
	if m.TS == "" {
		return time.Time{}, oops.With("field", "ts").Wrap(sharederrors.ErrMalformedRecord)
	}
	seconds, _, _ := strings.Cut(m.TS, ".")
	unix, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}, oops.With("field", "ts", "value", m.TS).Wrap(sharederrors.ErrMalformedRecord)
	}
	return time.Unix(unix, 0).UTC(), nil
}

// FormatTS renders a time as a Slack message timestamp parameter.
func FormatTS(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
