package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	directoryDomain "github.com/slackstats/workstats/internal/modules/directory/domain"
	"github.com/slackstats/workstats/internal/modules/stats/domain"
	"github.com/slackstats/workstats/internal/slack"
)

// pageSize is the number of fields per section block
const pageSize = 10

// topThreads caps the thread ranking list
const topThreads = 10

// Save-control action ids, one per report category. The interaction
// handler matches on these to persist the current report snapshot.
const (
	ActionSaveUserMessages  = "save_user_messages"
	ActionSaveUserReactions = "save_user_reactions"
	ActionSaveActiveDays    = "save_active_days"
	ActionSaveParticipation = "save_participation"
	ActionSaveThreads       = "save_threads"
)

// SaveActions lists every save-control action id
var SaveActions = []string{
	ActionSaveUserMessages,
	ActionSaveUserReactions,
	ActionSaveActiveDays,
	ActionSaveParticipation,
	ActionSaveThreads,
}

// OverviewMeta is the workspace-wide header data posted before any
// per-channel report.
type OverviewMeta struct {
	TotalUsers       int
	Counts           directoryDomain.TypeCounts
	BMAU             int
	PublicChannels   int
	PrivateChannels  int
	ActiveLast28Days int
}

// Overview renders the workspace-wide statistics header
func Overview(meta OverviewMeta) []slack.Block {
	return []slack.Block{
		slack.Section("*Workspace overview:*"),
		slack.Divider(),
		slack.SectionFields([]slack.Text{
			slack.Mrkdwn(fmt.Sprintf("*Total users:*\n%d", meta.TotalUsers)),
			slack.Mrkdwn(fmt.Sprintf("*Admins:*\n%d", meta.Counts.Admins)),
			slack.Mrkdwn(fmt.Sprintf("*Owners:*\n%d", meta.Counts.Owners)),
			slack.Mrkdwn(fmt.Sprintf("*Bots:*\n%d", meta.Counts.Bots)),
			slack.Mrkdwn(fmt.Sprintf("*Deleted users:*\n%d", meta.Counts.Deleted)),
			slack.Mrkdwn(fmt.Sprintf("*bMAU:*\n%d", meta.BMAU)),
			slack.Mrkdwn(fmt.Sprintf("*Public channels:*\n%d", meta.PublicChannels)),
			slack.Mrkdwn(fmt.Sprintf("*Private channels:*\n%d", meta.PrivateChannels)),
			slack.Mrkdwn(fmt.Sprintf("*Active users (28 days):*\n%d", meta.ActiveLast28Days)),
		}),
		slack.Divider(),
	}
}

// Report renders a metrics bundle into the full block sequence. An empty
// channelLabel means the report covers all channels.
func Report(bundle *domain.Bundle, channelLabel string) []slack.Block {
	label := "all channels"
	if channelLabel != "" {
		label = fmt.Sprintf("<#%s>", channelLabel)
	}

	blocks := []slack.Block{
		slack.Section(fmt.Sprintf("*Workspace usage for %s:*", label)),
		slack.Divider(),
		slack.SectionFields([]slack.Text{
			slack.Mrkdwn(fmt.Sprintf("*New members:*\n%d", bundle.NewMembers)),
			slack.Mrkdwn(fmt.Sprintf("*Total messages:*\n%d", bundle.TotalMessages)),
			slack.Mrkdwn(fmt.Sprintf("*Total reactions:*\n%d", bundle.TotalReactions)),
			slack.Mrkdwn(fmt.Sprintf("*Total threads:*\n%d", bundle.TotalThreads)),
		}),
		slack.Divider(),
		slack.Section("*Messages by month:*"),
	}

	monthFields := lo.Map(bundle.MessagesByMonth, func(mc domain.MonthCount, _ int) slack.Text {
		return slack.Mrkdwn(fmt.Sprintf("*%s:* %d messages", mc.Month, mc.Count))
	})
	blocks = append(blocks, paged(monthFields)...)

	blocks = append(blocks, slack.Divider(), slack.Section("*Messages by user:*"))
	blocks = append(blocks, paged(userMonthFields(bundle.UserMessages))...)
	blocks = append(blocks, slack.SaveButton(ActionSaveUserMessages))

	blocks = append(blocks, slack.Divider(), slack.Section("*Reactions by user:*"))
	blocks = append(blocks, paged(userMonthFields(bundle.UserReactions))...)
	blocks = append(blocks, slack.SaveButton(ActionSaveUserReactions))

	blocks = append(blocks, slack.Divider(), slack.Section("*Active days by user:*"))
	activeDays := make([]domain.UserDays, len(bundle.UserActiveDays))
	copy(activeDays, bundle.UserActiveDays)
	sort.SliceStable(activeDays, func(i, j int) bool {
		return len(activeDays[i].Days) > len(activeDays[j].Days)
	})
	activeFields := lo.Map(activeDays, func(ud domain.UserDays, _ int) slack.Text {
		return slack.Mrkdwn(fmt.Sprintf("*<@%s>:* %d days", ud.User, len(ud.Days)))
	})
	blocks = append(blocks, pagedWithControls(activeFields, ActionSaveActiveDays)...)

	blocks = append(blocks, slack.Divider(), slack.Section("*Participation rate:*"))
	rates := make([]domain.UserRate, len(bundle.Participation))
	copy(rates, bundle.Participation)
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Rate > rates[j].Rate
	})
	rateFields := lo.Map(rates, func(ur domain.UserRate, _ int) slack.Text {
		return slack.Mrkdwn(fmt.Sprintf("*<@%s>:* %.2f%%", ur.User, ur.Rate*100))
	})
	blocks = append(blocks, pagedWithControls(rateFields, ActionSaveParticipation)...)

	blocks = append(blocks, slack.Divider(), slack.Section("*Top thread messages:*"))
	if len(bundle.ThreadMessages) == 0 {
		blocks = append(blocks, slack.NoData())
	} else {
		for _, thread := range lo.Subset(bundle.ThreadMessages, 0, topThreads) {
			blocks = append(blocks, slack.Section(
				fmt.Sprintf("*<@%s>:* %q (%d replies)", thread.User, thread.Text, thread.Replies)))
		}
	}
	blocks = append(blocks, slack.SaveButton(ActionSaveThreads))

	return blocks
}

// paged chunks fields into section blocks of pageSize fields each, or a
// single placeholder when the category is empty.
func paged(fields []slack.Text) []slack.Block {
	if len(fields) == 0 {
		return []slack.Block{slack.NoData()}
	}
	return lo.Map(lo.Chunk(fields, pageSize), func(chunk []slack.Text, _ int) slack.Block {
		return slack.SectionFields(chunk)
	})
}

// pagedWithControls chunks fields like paged but appends the save control
// after every chunk rather than once per category.
func pagedWithControls(fields []slack.Text, actionID string) []slack.Block {
	if len(fields) == 0 {
		return []slack.Block{slack.NoData(), slack.SaveButton(actionID)}
	}
	var blocks []slack.Block
	for _, chunk := range lo.Chunk(fields, pageSize) {
		blocks = append(blocks, slack.SectionFields(chunk), slack.SaveButton(actionID))
	}
	return blocks
}

// userMonthFields renders per-user monthly breakdowns, one field per user
func userMonthFields(entries []domain.UserMonthCounts) []slack.Text {
	return lo.Map(entries, func(entry domain.UserMonthCounts, _ int) slack.Text {
		parts := lo.Map(entry.Months, func(mc domain.MonthCount, _ int) string {
			return fmt.Sprintf("%s: %d", mc.Month, mc.Count)
		})
		return slack.Mrkdwn(fmt.Sprintf("*<@%s>:*\n%s", entry.User, strings.Join(parts, ", ")))
	})
}
