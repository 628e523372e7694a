package iterators

import (
	"context"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// ReactionsClient fetches the users who reacted to a message with an emoji.
// Results are ascending by user ID; only After paging is supported.
type ReactionsClient interface {
	GetReactions(ctx context.Context, channelID, messageID snowflake.ID, emoji string, params paging.FetchParams) ([]model.UserPayload, error)
}

type ReactionsOptions struct {
	ChannelID snowflake.ID `validate:"required"`
	MessageID snowflake.ID `validate:"required"`
	Emoji     string       `validate:"required"`

	// GuildID enables resolving reactors to cached guild members.
	GuildID snowflake.ID

	Before *snowflake.Time
	After  *snowflake.Time
	Limit  *int
}

// ReactionsPager yields *model.Member when the reactor is a cached guild member
// and *model.User otherwise.
type ReactionsPager = paging.Pager[model.UserPayload, model.Participant]

type reactionsSource struct {
	client ReactionsClient
	state  model.State
	opts   ReactionsOptions
	after  *snowflake.ID
}

// NewReactions pages through the users who reacted to a message.
// Before is applied as a filter, since the endpoint only pages forward.
func NewReactions(client ReactionsClient, state model.State, opts ReactionsOptions, pagerOpts ...paging.PagerOption) (*ReactionsPager, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	before, after := snowflake.Convert(opts.Before, opts.After)
	cfg := paging.PagerConfig[model.UserPayload]{
		Limit:       opts.Limit,
		MaxPageSize: reactionsPageSize,
	}
	if before != nil {
		bound := *before
		cfg.PostFilter = func(u model.UserPayload) bool { return u.ID < bound }
	}

	src := &reactionsSource{client: client, state: state, opts: opts, after: after}
	return paging.NewPager[model.UserPayload, model.Participant](src, cfg, pagerOptions("reactions", pagerOpts)...)
}

func (s *reactionsSource) FetchPage(ctx context.Context, limit int) (paging.PageResult[model.UserPayload], error) {
	users, err := s.client.GetReactions(ctx, s.opts.ChannelID, s.opts.MessageID, s.opts.Emoji, paging.FetchParams{
		Limit: limit,
		After: s.after,
	})
	if err != nil {
		return paging.PageResult[model.UserPayload]{}, err
	}
	if len(users) > 0 {
		s.after = users[len(users)-1].ID.Ptr()
	}
	return paging.PageResult[model.UserPayload]{Items: users}, nil
}

func (s *reactionsSource) Transform(_ context.Context, raw model.UserPayload) (model.Participant, error) {
	return model.ResolveParticipant(s.state, s.opts.GuildID, raw), nil
}
