package service

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/slackstats/workstats/internal/modules/snapshot/domain"
	"github.com/slackstats/workstats/internal/modules/snapshot/repository"
	statsDomain "github.com/slackstats/workstats/internal/modules/stats/domain"
	"github.com/slackstats/workstats/internal/slack"
)

// Service records generated reports and handles save requests
type Service struct {
	repo repository.Repository
}

// New creates a new snapshot service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Record stores a freshly generated report
func (s *Service) Record(channelLabel string, bundle *statsDomain.Bundle, blocks []slack.Block) (*domain.Snapshot, error) {
	raw, err := json.Marshal(blocks)
	if err != nil {
		return nil, oops.With("channel_label", channelLabel, "context", "encoding report blocks").Wrap(err)
	}

	snapshot := &domain.Snapshot{
		ID:             uuid.NewString(),
		ChannelLabel:   channelLabel,
		TotalMessages:  bundle.TotalMessages,
		TotalReactions: bundle.TotalReactions,
		TotalThreads:   bundle.TotalThreads,
		Blocks:         raw,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Save(snapshot); err != nil {
		return nil, err
	}

	slog.Debug("Report snapshot recorded", "snapshot_id", snapshot.ID, "channel_label", channelLabel)
	return snapshot, nil
}

// SaveLatest marks the most recent snapshot as saved in response to a save
// control click.
func (s *Service) SaveLatest(actionID string) (*domain.Snapshot, error) {
	snapshot, err := s.repo.MarkLatestSaved()
	if err != nil {
		return nil, oops.With("action_id", actionID).Wrap(err)
	}
	slog.Info("Report snapshot saved", "snapshot_id", snapshot.ID, "action_id", actionID)
	return snapshot, nil
}

// Recent lists the newest snapshots
func (s *Service) Recent(limit int) ([]*domain.Snapshot, error) {
	return s.repo.Recent(limit)
}
