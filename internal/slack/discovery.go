package slack

import (
	"context"
	"net/url"
	"time"

	"github.com/samber/oops"

	sharederrors "github.com/slackstats/workstats/internal/shared/errors"
)

// maxPages caps cursor-following so a misbehaving server cannot make the
// fetch loop spin forever.
const maxPages = 10000

// responseMetadata carries the offset cursor for the next page; an empty
// offset signals the last page.
type responseMetadata struct {
	Offset string `json:"offset"`
}

// paginate repeatedly invokes call with the current offset cursor until the
// server stops returning one. A cursor identical to the one just sent means
// the server is not advancing and the loop fails instead of spinning.
func paginate(ctx context.Context, call func(offset string) (string, error)) error {
	offset := ""
	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := call(offset)
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		if next == offset {
			return oops.With("offset", offset).Wrap(sharederrors.ErrPaginationLoop)
		}
		offset = next
	}
	return oops.With("pages", maxPages).Wrap(sharederrors.ErrPaginationLoop)
}

// ListUsers fetches every user in the workspace via discovery.users.list
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var all []User
	err := paginate(ctx, func(offset string) (string, error) {
		params := url.Values{}
		if offset != "" {
			params.Set("offset", offset)
		}
		var resp struct {
			Users    []User            `json:"users"`
			Metadata *responseMetadata `json:"response_metadata"`
		}
		if err := c.get(ctx, "discovery.users.list", c.userToken, params, &resp); err != nil {
			return "", err
		}
		all = append(all, resp.Users...)
		if resp.Metadata == nil {
			return "", nil
		}
		return resp.Metadata.Offset, nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// ListChannels fetches every channel in the workspace via
// discovery.conversations.list, restricted to public or private channels.
func (c *Client) ListChannels(ctx context.Context, workspace string, onlyPublic bool) ([]Channel, error) {
	var all []Channel
	err := paginate(ctx, func(offset string) (string, error) {
		params := url.Values{}
		params.Set("team", workspace)
		if onlyPublic {
			params.Set("only_public", "true")
		} else {
			params.Set("only_public", "false")
		}
		if offset != "" {
			params.Set("offset", offset)
		}
		var resp struct {
			Channels []Channel         `json:"channels"`
			Metadata *responseMetadata `json:"response_metadata"`
		}
		if err := c.get(ctx, "discovery.conversations.list", c.userToken, params, &resp); err != nil {
			return "", err
		}
		all = append(all, resp.Channels...)
		if resp.Metadata == nil {
			return "", nil
		}
		return resp.Metadata.Offset, nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// FetchHistory fetches a channel's message history with reactions included
// via discovery.conversations.history. Zero oldest/latest bounds are omitted.
func (c *Client) FetchHistory(ctx context.Context, workspace, channelID string, oldest, latest time.Time) ([]Message, error) {
	var all []Message
	err := paginate(ctx, func(offset string) (string, error) {
		params := url.Values{}
		params.Set("team", workspace)
		params.Set("channel", channelID)
		params.Set("reactions", "1")
		if !oldest.IsZero() && !latest.IsZero() {
			params.Set("oldest", FormatTS(oldest))
			params.Set("latest", FormatTS(latest))
		}
		if offset != "" {
			params.Set("offset", offset)
		}
		var resp struct {
			Messages []Message         `json:"messages"`
			Metadata *responseMetadata `json:"response_metadata"`
		}
		if err := c.get(ctx, "discovery.conversations.history", c.userToken, params, &resp); err != nil {
			return "", err
		}
		all = append(all, resp.Messages...)
		if resp.Metadata == nil {
			return "", nil
		}
		return resp.Metadata.Offset, nil
	})
	if err != nil {
		return nil, oops.With("channel_id", channelID).Wrap(err)
	}
	return all, nil
}
