package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	sharederrors "github.com/slackstats/workstats/internal/shared/errors"
	"github.com/slackstats/workstats/internal/slack"
)

func ts(t time.Time) string {
	return fmt.Sprintf("%d.000000", t.Unix())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAggregateTotals(t *testing.T) {
	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	messages := []slack.Message{
		{TS: ts(base), User: "U1", Text: "one"},
		{TS: ts(base.AddDate(0, 0, 1)), User: "U2", Text: "two"},
		{TS: ts(base.AddDate(0, 1, 0)), User: "U1", Text: "three"},
		{TS: ts(base.AddDate(0, 1, 2)), Text: "no author"},
	}

	bundle, err := New().Aggregate(messages, nil)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	if bundle.TotalMessages != len(messages) {
		t.Errorf("TotalMessages = %d, want %d", bundle.TotalMessages, len(messages))
	}

	sum := 0
	for _, mc := range bundle.MessagesByMonth {
		sum += mc.Count
	}
	if sum != bundle.TotalMessages {
		t.Errorf("sum of monthly counts = %d, want %d", sum, bundle.TotalMessages)
	}

	// Months are ordered descending
	if len(bundle.MessagesByMonth) != 2 {
		t.Fatalf("MessagesByMonth has %d entries, want 2", len(bundle.MessagesByMonth))
	}
	if bundle.MessagesByMonth[0].Month != "2025-02" || bundle.MessagesByMonth[1].Month != "2025-01" {
		t.Errorf("months not descending: %+v", bundle.MessagesByMonth)
	}

	// The authorless message counts toward totals but no user
	totalUserMessages := 0
	for _, entry := range bundle.UserMessages {
		totalUserMessages += entry.Total
	}
	if totalUserMessages != 3 {
		t.Errorf("per-user message total = %d, want 3", totalUserMessages)
	}
}

func TestAggregateReactions(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	messages := []slack.Message{
		{
			TS:   ts(base),
			User: "U1",
			Reactions: []slack.Reaction{
				{Name: "thumbsup", Users: []string{"U2", "U3", "BOT1"}},
				{Name: "eyes", Users: []string{"U2"}},
			},
		},
		{
			TS:   ts(base.AddDate(0, 0, 1)),
			User: "BOT1",
			Reactions: []slack.Reaction{
				{Name: "wave", Users: []string{"U1"}},
			},
		},
	}
	bots := map[string]struct{}{"BOT1": {}}

	bundle, err := New().Aggregate(messages, bots)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	// Reaction objects, not reacting users
	if bundle.TotalReactions != 3 {
		t.Errorf("TotalReactions = %d, want 3", bundle.TotalReactions)
	}

	// Bots are excluded from message tracking but not reaction tracking
	for _, entry := range bundle.UserMessages {
		if entry.User == "BOT1" {
			t.Errorf("bot found in UserMessages")
		}
	}
	botReacted := false
	for _, entry := range bundle.UserReactions {
		if entry.User == "BOT1" {
			botReacted = true
		}
	}
	if !botReacted {
		t.Errorf("bot reacting user missing from UserReactions")
	}
}

func TestAggregateThreadRanking(t *testing.T) {
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	messages := []slack.Message{
		{TS: ts(base), User: "A", Text: "a", ReplyCount: 5},
		{TS: ts(base.Add(time.Minute)), User: "B", Text: "b", ReplyCount: 0},
		{TS: ts(base.Add(2 * time.Minute)), User: "C", Text: "c", ReplyCount: 3},
		{TS: ts(base.Add(3 * time.Minute)), User: "D", Text: "d", ReplyCount: 3},
	}

	bundle, err := New().Aggregate(messages, nil)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	want := []struct {
		user    string
		replies int
	}{
		{"A", 5},
		{"C", 3},
		{"D", 3},
	}
	if len(bundle.ThreadMessages) != len(want) {
		t.Fatalf("ThreadMessages has %d entries, want %d", len(bundle.ThreadMessages), len(want))
	}
	for i, w := range want {
		got := bundle.ThreadMessages[i]
		if got.User != w.user || got.Replies != w.replies {
			t.Errorf("ThreadMessages[%d] = (%s, %d), want (%s, %d)", i, got.User, got.Replies, w.user, w.replies)
		}
	}
}

func TestAggregateThreadTotal(t *testing.T) {
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	messages := []slack.Message{
		{TS: ts(base), User: "A", Text: "parent"},
		{TS: ts(base.Add(time.Minute)), User: "B", Text: "reply", ThreadTS: ts(base)},
		{TS: ts(base.Add(2 * time.Minute)), User: "C", Text: "reply", ThreadTS: ts(base)},
	}

	bundle, err := New().Aggregate(messages, nil)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}
	if bundle.TotalThreads != 2 {
		t.Errorf("TotalThreads = %d, want 2", bundle.TotalThreads)
	}
}

func TestAggregateMalformedTimestamp(t *testing.T) {
	messages := []slack.Message{
		{TS: "1714550400.000000", User: "U1"},
		{User: "U2"}, // missing ts
	}

	_, err := New().Aggregate(messages, nil)
	if err == nil {
		t.Fatal("Aggregate() expected error for missing timestamp, got nil")
	}
	if !errors.Is(err, sharederrors.ErrMalformedRecord) {
		t.Errorf("Aggregate() error = %v, want ErrMalformedRecord", err)
	}
}

func TestAggregateActiveDays(t *testing.T) {
	day1 := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC)
	messages := []slack.Message{
		{TS: ts(day1), User: "U1"},
		{TS: ts(day1.Add(4 * time.Hour)), User: "U1"}, // same day, counted once
		{TS: ts(day2), User: "U1"},
		{TS: ts(day2), User: "BOT1"},
	}
	bots := map[string]struct{}{"BOT1": {}}

	bundle, err := New().Aggregate(messages, bots)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	if len(bundle.UserActiveDays) != 1 {
		t.Fatalf("UserActiveDays has %d entries, want 1", len(bundle.UserActiveDays))
	}
	if got := len(bundle.UserActiveDays[0].Days); got != 2 {
		t.Errorf("active days for U1 = %d, want 2", got)
	}
}

func TestComputeParticipation(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	messages := []slack.Message{
		{TS: ts(base), User: "U1"},
		{TS: ts(base.Add(time.Hour)), User: "U1"},
		{TS: ts(base.Add(2 * time.Hour)), User: "U2"},
		{TS: ts(base.Add(3 * time.Hour)), User: "BOT1"},
	}
	bots := map[string]struct{}{"BOT1": {}}

	bundle, err := New().Aggregate(messages, bots)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	rates := ComputeParticipation(bundle.UserMessages, bundle.TotalMessages)

	sum := 0.0
	byUser := make(map[string]float64)
	for _, rate := range rates {
		sum += rate.Rate
		byUser[rate.User] = rate.Rate
	}

	// Rates are computed over non-bot senders but divided by all messages,
	// so the sum stays at or below one.
	if sum > 1.0+1e-9 {
		t.Errorf("participation rates sum = %f, want <= 1", sum)
	}
	if got, want := byUser["U1"], 0.5; got != want {
		t.Errorf("participation for U1 = %f, want %f", got, want)
	}
}

func TestComputeParticipationEmpty(t *testing.T) {
	rates := ComputeParticipation(nil, 0)
	if len(rates) != 0 {
		t.Errorf("ComputeParticipation(nil, 0) returned %d rates, want 0", len(rates))
	}
}

func TestComputeNewMembers(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	svc := NewWithClock(fixedClock(now))

	users := []slack.User{
		{ID: "U1", Created: now.AddDate(0, 0, -5).Unix()},   // recent
		{ID: "U2", Created: now.AddDate(0, 0, -40).Unix()},  // too old
		{ID: "BOT1", Created: now.AddDate(0, 0, -5).Unix()}, // bot, excluded
	}
	bots := map[string]struct{}{"BOT1": {}}

	if got := svc.ComputeNewMembers(users, bots, time.Time{}, time.Time{}); got != 1 {
		t.Errorf("ComputeNewMembers(default window) = %d, want 1", got)
	}

	// Explicit window catches the older user too
	from := now.AddDate(0, 0, -60)
	if got := svc.ComputeNewMembers(users, bots, from, now); got != 2 {
		t.Errorf("ComputeNewMembers(explicit window) = %d, want 2", got)
	}
}

func TestComputeActiveRecent(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	svc := NewWithClock(fixedClock(now))

	messages := []slack.Message{
		{TS: ts(now.AddDate(0, 0, -3)), User: "U1"},
		{TS: ts(now.AddDate(0, 0, -10)), User: "U1"}, // same user, counted once
		{TS: ts(now.AddDate(0, 0, -40)), User: "U2"}, // outside window
		{TS: ts(now.AddDate(0, 0, -1)), User: "BOT1"},
	}
	bots := map[string]struct{}{"BOT1": {}}

	if got := svc.ComputeActiveRecent(messages, bots); got != 1 {
		t.Errorf("ComputeActiveRecent() = %d, want 1", got)
	}
}

func TestAggregateEmptyBatch(t *testing.T) {
	bundle, err := New().Aggregate(nil, nil)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}
	if bundle.TotalMessages != 0 || len(bundle.MessagesByMonth) != 0 {
		t.Errorf("empty batch produced non-empty bundle: %+v", bundle)
	}
}
