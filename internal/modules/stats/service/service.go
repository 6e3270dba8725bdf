package service

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/slackstats/workstats/internal/modules/stats/domain"
	"github.com/slackstats/workstats/internal/slack"
)

const monthFormat = "2006-01"
const dayFormat = "2006-01-02"

// activeWindowDays is the recency window for the active-user count
const activeWindowDays = 28

// newMemberWindowDays is the default window for the new-member count when
// no explicit date range is configured
const newMemberWindowDays = 30

// Service computes usage statistics from message batches. The clock is a
// field so windowed computations are testable.
type Service struct {
	now func() time.Time
}

// New creates a new stats service
func New() *Service {
	return &Service{now: time.Now}
}

// NewWithClock creates a stats service with a fixed clock
func NewWithClock(now func() time.Time) *Service {
	return &Service{now: now}
}

// accumulator collects intermediate state during the aggregation fold.
// Maps are paired with first-seen order slices so the materialized bundle
// carries deterministic ordering.
type accumulator struct {
	totalMessages  int
	totalReactions int
	totalThreads   int

	monthCounts map[string]int

	userMessages map[string]map[string]int
	messageOrder []string

	userReactions map[string]map[string]int
	reactionOrder []string

	activeDays map[string]map[string]struct{}
	activeOrder []string

	threads []domain.ThreadMessage
}

func newAccumulator() *accumulator {
	return &accumulator{
		monthCounts:   make(map[string]int),
		userMessages:  make(map[string]map[string]int),
		userReactions: make(map[string]map[string]int),
		activeDays:    make(map[string]map[string]struct{}),
	}
}

// Aggregate folds a flat batch of messages into a metrics bundle. Bots are
// excluded from per-user message and active-day tracking but not from
// reaction tracking; the reaction total counts reaction objects, not
// reacting users. A message without a timestamp aborts the whole batch so
// under-reporting never happens silently.
//
// The returned bundle excludes participation rates and the new-member and
// recency metrics, which are filled in by the caller from the directory
// and the clock.
func (s *Service) Aggregate(messages []slack.Message, bots map[string]struct{}) (*domain.Bundle, error) {
	acc := newAccumulator()

	for _, message := range messages {
		ts, err := message.Time()
		if err != nil {
			return nil, oops.With("context", "aggregating message batch").Wrap(err)
		}
		month := ts.Format(monthFormat)
		day := ts.Format(dayFormat)

		acc.totalMessages++
		acc.monthCounts[month]++

		if message.ThreadTS != "" {
			acc.totalThreads++
		}

		_, isBot := bots[message.User]
		if message.User != "" && !isBot {
			months, ok := acc.userMessages[message.User]
			if !ok {
				months = make(map[string]int)
				acc.userMessages[message.User] = months
				acc.messageOrder = append(acc.messageOrder, message.User)
			}
			months[month]++

			days, ok := acc.activeDays[message.User]
			if !ok {
				days = make(map[string]struct{})
				acc.activeDays[message.User] = days
				acc.activeOrder = append(acc.activeOrder, message.User)
			}
			days[day] = struct{}{}
		}

		for _, reaction := range message.Reactions {
			for _, user := range reaction.Users {
				months, ok := acc.userReactions[user]
				if !ok {
					months = make(map[string]int)
					acc.userReactions[user] = months
					acc.reactionOrder = append(acc.reactionOrder, user)
				}
				months[month]++
			}
			acc.totalReactions++
		}

		if message.ReplyCount > 0 {
			acc.threads = append(acc.threads, domain.ThreadMessage{
				User:    message.User,
				Text:    message.Text,
				Replies: message.ReplyCount,
			})
		}
	}

	return acc.materialize(), nil
}

// materialize freezes the accumulator into an immutable bundle
func (acc *accumulator) materialize() *domain.Bundle {
	bundle := &domain.Bundle{
		TotalMessages:  acc.totalMessages,
		TotalReactions: acc.totalReactions,
		TotalThreads:   acc.totalThreads,
	}

	months := lo.Keys(acc.monthCounts)
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	bundle.MessagesByMonth = lo.Map(months, func(month string, _ int) domain.MonthCount {
		return domain.MonthCount{Month: month, Count: acc.monthCounts[month]}
	})

	bundle.UserMessages = materializeUserMonths(acc.userMessages, acc.messageOrder)
	bundle.UserReactions = materializeUserMonths(acc.userReactions, acc.reactionOrder)

	bundle.UserActiveDays = lo.Map(acc.activeOrder, func(user string, _ int) domain.UserDays {
		days := lo.Keys(acc.activeDays[user])
		sort.Strings(days)
		return domain.UserDays{User: user, Days: days}
	})

	bundle.ThreadMessages = acc.threads
	sort.SliceStable(bundle.ThreadMessages, func(i, j int) bool {
		return bundle.ThreadMessages[i].Replies > bundle.ThreadMessages[j].Replies
	})

	return bundle
}

func materializeUserMonths(counts map[string]map[string]int, order []string) []domain.UserMonthCounts {
	return lo.Map(order, func(user string, _ int) domain.UserMonthCounts {
		months := lo.Keys(counts[user])
		sort.Strings(months)
		entry := domain.UserMonthCounts{User: user}
		for _, month := range months {
			entry.Months = append(entry.Months, domain.MonthCount{Month: month, Count: counts[user][month]})
			entry.Total += counts[user][month]
		}
		return entry
	})
}

// ComputeParticipation divides each user's summed monthly counts by the
// batch total. With an empty batch every rate is zero.
func ComputeParticipation(userMessages []domain.UserMonthCounts, totalMessages int) []domain.UserRate {
	return lo.Map(userMessages, func(entry domain.UserMonthCounts, _ int) domain.UserRate {
		rate := 0.0
		if totalMessages > 0 {
			rate = float64(entry.Total) / float64(totalMessages)
		}
		return domain.UserRate{User: entry.User, Rate: rate}
	})
}

// ComputeNewMembers counts non-bot users created within [from, to). With a
// zero range the window defaults to the trailing 30 days.
func (s *Service) ComputeNewMembers(users []slack.User, bots map[string]struct{}, from, to time.Time) int {
	if from.IsZero() || to.IsZero() {
		to = s.now()
		from = to.AddDate(0, 0, -newMemberWindowDays)
	}

	count := 0
	for _, user := range users {
		if _, isBot := bots[user.ID]; isBot {
			continue
		}
		created := time.Unix(user.Created, 0)
		if !created.Before(from) && created.Before(to) {
			count++
		}
	}
	return count
}

// ComputeActiveRecent counts distinct non-bot users with at least one
// message inside the trailing 28-day window.
func (s *Service) ComputeActiveRecent(messages []slack.Message, bots map[string]struct{}) int {
	cutoff := s.now().AddDate(0, 0, -activeWindowDays)

	active := make(map[string]struct{})
	for _, message := range messages {
		if message.User == "" {
			continue
		}
		if _, isBot := bots[message.User]; isBot {
			continue
		}
		ts, err := message.Time()
		if err != nil {
			continue
		}
		if ts.After(cutoff) {
			active[message.User] = struct{}{}
		}
	}
	return len(active)
}
