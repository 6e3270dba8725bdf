package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"

	directoryDomain "github.com/slackstats/workstats/internal/modules/directory/domain"
	directoryService "github.com/slackstats/workstats/internal/modules/directory/service"
	"github.com/slackstats/workstats/internal/modules/report/render"
	snapshotService "github.com/slackstats/workstats/internal/modules/snapshot/service"
	statsService "github.com/slackstats/workstats/internal/modules/stats/service"
	"github.com/slackstats/workstats/internal/shared/config"
	sharederrors "github.com/slackstats/workstats/internal/shared/errors"
	"github.com/slackstats/workstats/internal/slack"
)

// Service runs the full report flow: fetch the directory, gather channel
// history, aggregate, render, and post.
type Service struct {
	cfg       *config.Config
	client    *slack.Client
	directory *directoryService.Service
	stats     *statsService.Service
	snapshots *snapshotService.Service
}

// New creates a new report service
func New(cfg *config.Config, client *slack.Client, directory *directoryService.Service, stats *statsService.Service, snapshots *snapshotService.Service) *Service {
	return &Service{
		cfg:       cfg,
		client:    client,
		directory: directory,
		stats:     stats,
		snapshots: snapshots,
	}
}

// Run executes one report generation pass and posts the results to the
// configured destination channel. Trigger sites treat this as the error
// boundary: a failed run is logged there and nothing further is posted.
func (s *Service) Run(ctx context.Context) error {
	from, to, err := s.cfg.Window()
	if err != nil {
		return err
	}

	users, err := s.directory.FetchUsers(ctx)
	if err != nil {
		return err
	}
	cls := directoryService.Classify(users, s.cfg.SelectUser)

	channels, err := s.directory.FetchChannels(ctx, s.cfg.Workspace)
	if err != nil {
		return err
	}
	publicCount := lo.CountBy(channels, func(ch directoryDomain.Channel) bool {
		return ch.Visibility == directoryDomain.VisibilityPublic
	})

	overview := render.Overview(render.OverviewMeta{
		TotalUsers:       len(users),
		Counts:           cls.Counts,
		BMAU:             len(users),
		PublicChannels:   publicCount,
		PrivateChannels:  len(channels) - publicCount,
		ActiveLast28Days: len(cls.Eligible),
	})
	if err := s.client.PostMessage(ctx, s.cfg.Channel, overview); err != nil {
		return oops.With("context", "posting overview").Wrap(err)
	}

	if len(s.cfg.Channels) == 0 {
		return s.runMerged(ctx, channels, users, cls, from, to)
	}
	return s.runPerChannel(ctx, channels, users, cls, from, to)
}

// runMerged aggregates every channel's history into one combined report
func (s *Service) runMerged(ctx context.Context, channels []directoryDomain.Channel, users []slack.User, cls directoryDomain.Classification, from, to time.Time) error {
	var allMessages []slack.Message
	for _, channel := range channels {
		messages, err := s.client.FetchHistory(ctx, s.cfg.Workspace, channel.ID, from, to)
		if err != nil {
			return oops.With("channel_id", channel.ID, "context", "fetching channel history").Wrap(err)
		}
		allMessages = append(allMessages, messages...)
	}

	return s.report(ctx, allMessages, users, cls, from, to, "")
}

// runPerChannel posts one report per channel named in the configured
// channel filter. A malformed batch skips that channel so the remaining
// channels still get reported.
func (s *Service) runPerChannel(ctx context.Context, channels []directoryDomain.Channel, users []slack.User, cls directoryDomain.Classification, from, to time.Time) error {
	for _, channel := range channels {
		if !lo.Contains(s.cfg.Channels, channel.ID) {
			continue
		}

		messages, err := s.client.FetchHistory(ctx, s.cfg.Workspace, channel.ID, from, to)
		if err != nil {
			return oops.With("channel_id", channel.ID, "context", "fetching channel history").Wrap(err)
		}

		if err := s.report(ctx, messages, users, cls, from, to, channel.ID); err != nil {
			if errors.Is(err, sharederrors.ErrMalformedRecord) {
				slog.Error("Skipping channel with malformed records", "channel_id", channel.ID, "error", err)
				continue
			}
			return err
		}
	}
	return nil
}

// report aggregates one message batch, renders it, posts it, and records
// the snapshot.
func (s *Service) report(ctx context.Context, messages []slack.Message, users []slack.User, cls directoryDomain.Classification, from, to time.Time, channelLabel string) error {
	bundle, err := s.stats.Aggregate(messages, cls.Bots)
	if err != nil {
		return err
	}
	bundle.Participation = statsService.ComputeParticipation(bundle.UserMessages, bundle.TotalMessages)
	bundle.NewMembers = s.stats.ComputeNewMembers(users, cls.Bots, from, to)
	bundle.ActiveLast28Days = s.stats.ComputeActiveRecent(messages, cls.Bots)

	blocks := render.Report(bundle, channelLabel)
	if err := s.client.PostMessage(ctx, s.cfg.Channel, blocks); err != nil {
		return oops.With("channel_label", channelLabel, "context", "posting report").Wrap(err)
	}

	if _, err := s.snapshots.Record(channelLabel, bundle, blocks); err != nil {
		slog.Error("Failed to record report snapshot", "channel_label", channelLabel, "error", err)
	}

	slog.Info("Report posted", "channel_label", lo.Ternary(channelLabel == "", "all", channelLabel), "total_messages", bundle.TotalMessages)
	return nil
}
