package iterators

import (
	"context"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// GuildsClient fetches a page of the current user's guilds, ascending by ID.
type GuildsClient interface {
	GetGuilds(ctx context.Context, params paging.FetchParams) ([]model.GuildPayload, error)
}

type GuildsOptions struct {
	Before *snowflake.Time
	After  *snowflake.Time
	Limit  *int
}

type GuildsPager = paging.Pager[model.GuildPayload, *model.Guild]

type guildsSource struct {
	client GuildsClient
	cursor *ascendingCursor[model.GuildPayload]
}

// NewGuilds pages through the guilds the current user belongs to.
func NewGuilds(client GuildsClient, opts GuildsOptions, pagerOpts ...paging.PagerOption) (*GuildsPager, error) {
	before, after := snowflake.Convert(opts.Before, opts.After)
	cfg := paging.PagerConfig[model.GuildPayload]{
		Limit:       opts.Limit,
		MaxPageSize: guildsPageSize,
	}
	src := &guildsSource{
		client: client,
		cursor: newAscendingCursor(before, after, func(g model.GuildPayload) snowflake.ID { return g.ID }, &cfg),
	}
	return paging.NewPager[model.GuildPayload, *model.Guild](src, cfg, pagerOptions("guilds", pagerOpts)...)
}

func (s *guildsSource) FetchPage(ctx context.Context, limit int) (paging.PageResult[model.GuildPayload], error) {
	guilds, err := s.client.GetGuilds(ctx, s.cursor.params(limit))
	if err != nil {
		return paging.PageResult[model.GuildPayload]{}, err
	}
	s.cursor.advance(guilds)
	return paging.PageResult[model.GuildPayload]{Items: guilds}, nil
}

func (s *guildsSource) Transform(_ context.Context, raw model.GuildPayload) (*model.Guild, error) {
	return model.NewGuild(raw), nil
}
