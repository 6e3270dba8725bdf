package domain

// MonthCount is one month's tally, keyed by a zero-padded YYYY-MM label so
// lexicographic order matches chronological order.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// UserMonthCounts is a per-user breakdown of monthly tallies. Months are
// ordered ascending by label.
type UserMonthCounts struct {
	User   string       `json:"user"`
	Months []MonthCount `json:"months"`
	Total  int          `json:"total"`
}

// UserDays is the set of distinct YYYY-MM-DD days a user was active on
type UserDays struct {
	User string   `json:"user"`
	Days []string `json:"days"`
}

// UserRate is a user's share of all messages, in [0,1]
type UserRate struct {
	User string  `json:"user"`
	Rate float64 `json:"rate"`
}

// ThreadMessage is a thread parent ranked by its reply count
type ThreadMessage struct {
	User    string `json:"user"`
	Text    string `json:"text"`
	Replies int    `json:"replies"`
}

// Bundle is the metrics derived from one batch of messages. Ordered slices
// are carried instead of maps so rendering never depends on map iteration
// order: MessagesByMonth is descending by month, ThreadMessages descending
// by reply count, and the per-user sequences keep first-seen order.
type Bundle struct {
	TotalMessages  int `json:"total_messages"`
	TotalReactions int `json:"total_reactions"`
	TotalThreads   int `json:"total_threads"`

	MessagesByMonth []MonthCount      `json:"messages_by_month"`
	UserMessages    []UserMonthCounts `json:"user_messages"`
	UserReactions   []UserMonthCounts `json:"user_reactions"`
	UserActiveDays  []UserDays        `json:"user_active_days"`
	Participation   []UserRate        `json:"participation"`
	ThreadMessages  []ThreadMessage   `json:"thread_messages"`

	NewMembers       int `json:"new_members"`
	ActiveLast28Days int `json:"active_last_28_days"`
}
