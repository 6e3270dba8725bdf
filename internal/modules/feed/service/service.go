package service

import (
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/samber/oops"

	snapshotService "github.com/slackstats/workstats/internal/modules/snapshot/service"
)

// feedSize is how many recent snapshots the feed exposes
const feedSize = 20

// Service generates an RSS feed of recent report snapshots
type Service struct {
	snapshots *snapshotService.Service
}

// New creates a new feed service
func New(snapshots *snapshotService.Service) *Service {
	return &Service{snapshots: snapshots}
}

// Generate builds the feed of recent reports
func (s *Service) Generate(baseURL string) (*feeds.Feed, error) {
	snapshots, err := s.snapshots.Recent(feedSize)
	if err != nil {
		return nil, oops.With("context", "loading recent snapshots").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "Workspace Usage Reports",
		Link:        &feeds.Link{Href: baseURL + "/feed"},
		Description: "Recent Slack workspace usage reports",
	}

	for _, snapshot := range snapshots {
		label := snapshot.ChannelLabel
		if label == "" {
			label = "all channels"
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title: fmt.Sprintf("Usage report (%s)", label),
			Link:  &feeds.Link{Href: baseURL + "/feed"},
			Description: fmt.Sprintf("%d messages, %d reactions, %d threads",
				snapshot.TotalMessages, snapshot.TotalReactions, snapshot.TotalThreads),
			Created: snapshot.CreatedAt,
			Id:      snapshot.ID,
		})
		if feed.Updated.Before(snapshot.CreatedAt) {
			feed.Updated = snapshot.CreatedAt
		}
	}

	return feed, nil
}
