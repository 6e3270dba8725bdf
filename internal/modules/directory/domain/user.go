package domain

import "github.com/slackstats/workstats/internal/slack"

// TypeCounts aggregates the user directory by account type
type TypeCounts struct {
	Admins  int `json:"admins"`
	Owners  int `json:"owners"`
	Bots    int `json:"bots"`
	Deleted int `json:"deleted"`
}

// Classification partitions the raw user directory into bots and the
// working set of users the report covers.
type Classification struct {
	Bots     map[string]struct{}
	Counts   TypeCounts
	Eligible []slack.User
}

// Channel represents a workspace channel with resolved visibility
type Channel struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
}
