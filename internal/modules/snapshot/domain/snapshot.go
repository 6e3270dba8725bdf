package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is one generated report, recorded so save controls and the feed
// endpoint can refer back to it.
type Snapshot struct {
	ID             string          `json:"id"`
	ChannelLabel   string          `json:"channel_label"`
	TotalMessages  int             `json:"total_messages"`
	TotalReactions int             `json:"total_reactions"`
	TotalThreads   int             `json:"total_threads"`
	Blocks         json.RawMessage `json:"blocks"`
	Saved          bool            `json:"saved"`
	CreatedAt      time.Time       `json:"created_at"`
}
