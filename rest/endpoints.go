package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/iterators"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

var (
	_ iterators.HistoryClient             = (*Client)(nil)
	_ iterators.ReactionsClient           = (*Client)(nil)
	_ iterators.BansClient                = (*Client)(nil)
	_ iterators.GuildsClient              = (*Client)(nil)
	_ iterators.MembersClient             = (*Client)(nil)
	_ iterators.AuditLogClient            = (*Client)(nil)
	_ iterators.ArchivedThreadsClient     = (*Client)(nil)
	_ iterators.ScheduledEventUsersClient = (*Client)(nil)
)

func (c *Client) GetMessages(ctx context.Context, channelID snowflake.ID, params paging.FetchParams) ([]model.MessagePayload, error) {
	var out []model.MessagePayload
	err := c.get(ctx, "/channels/"+channelID.String()+"/messages", pageQuery(params), &out)
	return out, err
}

// GetReactions only sends after; the endpoint has no before parameter.
func (c *Client) GetReactions(ctx context.Context, channelID, messageID snowflake.ID, emoji string, params paging.FetchParams) ([]model.UserPayload, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(params.Limit))
	setID(q, "after", params.After)

	path := "/channels/" + channelID.String() + "/messages/" + messageID.String() + "/reactions/" + url.PathEscape(emoji)
	var out []model.UserPayload
	err := c.get(ctx, path, q, &out)
	return out, err
}

func (c *Client) GetBans(ctx context.Context, guildID snowflake.ID, params paging.FetchParams) ([]model.BanPayload, error) {
	var out []model.BanPayload
	err := c.get(ctx, "/guilds/"+guildID.String()+"/bans", pageQuery(params), &out)
	return out, err
}

// GetGuilds lists the guilds of the authenticated user.
func (c *Client) GetGuilds(ctx context.Context, params paging.FetchParams) ([]model.GuildPayload, error) {
	var out []model.GuildPayload
	err := c.get(ctx, "/users/@me/guilds", pageQuery(params), &out)
	return out, err
}

func (c *Client) GetMembers(ctx context.Context, guildID snowflake.ID, params paging.FetchParams) ([]model.MemberPayload, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(params.Limit))
	setID(q, "after", params.After)

	var out []model.MemberPayload
	err := c.get(ctx, "/guilds/"+guildID.String()+"/members", q, &out)
	return out, err
}

func (c *Client) GetAuditLog(ctx context.Context, guildID snowflake.ID, query model.AuditLogQuery) (*model.AuditLogPayload, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(query.Limit))
	setID(q, "before", query.Before)
	setID(q, "user_id", query.UserID)
	if query.ActionType != nil {
		q.Set("action_type", strconv.Itoa(int(*query.ActionType)))
	}

	out := &model.AuditLogPayload{}
	if err := c.get(ctx, "/guilds/"+guildID.String()+"/audit-logs", q, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetArchivedThreads routes the query to the public, private or joined
// private listing.
func (c *Client) GetArchivedThreads(ctx context.Context, channelID snowflake.ID, query model.ArchivedThreadsQuery) (*model.ThreadListPayload, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(query.Limit))
	if query.Before != nil {
		q.Set("before", *query.Before)
	}

	path := "/channels/" + channelID.String()
	switch query.Kind {
	case model.ArchivedPrivate:
		path += "/threads/archived/private"
	case model.ArchivedJoinedPrivate:
		path += "/users/@me/threads/archived/private"
	default:
		path += "/threads/archived/public"
	}

	out := &model.ThreadListPayload{}
	if err := c.get(ctx, path, q, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetScheduledEventUsers(ctx context.Context, guildID, eventID snowflake.ID, query model.ScheduledEventUsersQuery) ([]model.ScheduledEventUserPayload, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(query.Limit))
	q.Set("with_member", strconv.FormatBool(query.WithMember))
	setID(q, "before", query.Before)
	setID(q, "after", query.After)

	path := "/guilds/" + guildID.String() + "/scheduled-events/" + eventID.String() + "/users"
	var out []model.ScheduledEventUserPayload
	err := c.get(ctx, path, q, &out)
	return out, err
}
