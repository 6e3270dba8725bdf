package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/slackstats/workstats/internal/modules/directory/domain"
	"github.com/slackstats/workstats/internal/slack"
)

// Service fetches and classifies the workspace directory
type Service struct {
	client *slack.Client
}

// New creates a new directory service
func New(client *slack.Client) *Service {
	return &Service{client: client}
}

// FetchUsers retrieves every user in the workspace
func (s *Service) FetchUsers(ctx context.Context) ([]slack.User, error) {
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, oops.With("context", "fetching user directory").Wrap(err)
	}
	return users, nil
}

// FetchChannels retrieves every channel in the workspace, public passes
// first, with visibility resolved from the pass that returned the channel.
func (s *Service) FetchChannels(ctx context.Context, workspace string) ([]domain.Channel, error) {
	public, err := s.client.ListChannels(ctx, workspace, true)
	if err != nil {
		return nil, oops.With("context", "fetching public channels").Wrap(err)
	}
	private, err := s.client.ListChannels(ctx, workspace, false)
	if err != nil {
		return nil, oops.With("context", "fetching private channels").Wrap(err)
	}

	channels := make([]domain.Channel, 0, len(public)+len(private))
	for _, ch := range public {
		channels = append(channels, domain.Channel{ID: ch.ID, Name: ch.Name, Visibility: domain.VisibilityPublic})
	}
	for _, ch := range private {
		channels = append(channels, domain.Channel{ID: ch.ID, Name: ch.Name, Visibility: domain.VisibilityPrivate})
	}
	return channels, nil
}

// Classify partitions users into bots and non-bots and tallies account
// types. A user is eligible when it is not a bot, or when it matches the
// configured select-user override.
func Classify(users []slack.User, selectUser string) domain.Classification {
	cls := domain.Classification{
		Bots: make(map[string]struct{}),
	}

	for _, user := range users {
		if user.IsAdmin {
			cls.Counts.Admins++
		}
		if user.IsOwner {
			cls.Counts.Owners++
		}
		if user.IsBot {
			cls.Counts.Bots++
			cls.Bots[user.ID] = struct{}{}
		}
		if user.Deleted {
			cls.Counts.Deleted++
		}
	}

	cls.Eligible = lo.Filter(users, func(user slack.User, _ int) bool {
		return !user.IsBot || (selectUser != "" && user.ID == selectUser)
	})

	return cls
}
