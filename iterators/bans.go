package iterators

import (
	"context"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// BansClient fetches a page of guild bans, ascending by user ID.
type BansClient interface {
	GetBans(ctx context.Context, guildID snowflake.ID, params paging.FetchParams) ([]model.BanPayload, error)
}

type BansOptions struct {
	GuildID snowflake.ID `validate:"required"`
	Before  *snowflake.Time
	After   *snowflake.Time
	Limit   *int
}

type BansPager = paging.Pager[model.BanPayload, *model.Ban]

type bansSource struct {
	client  BansClient
	state   model.State
	guildID snowflake.ID
	cursor  *ascendingCursor[model.BanPayload]
}

// NewBans pages through a guild's bans.
func NewBans(client BansClient, state model.State, opts BansOptions, pagerOpts ...paging.PagerOption) (*BansPager, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	before, after := snowflake.Convert(opts.Before, opts.After)
	cfg := paging.PagerConfig[model.BanPayload]{
		Limit:       opts.Limit,
		MaxPageSize: bansPageSize,
	}
	src := &bansSource{
		client:  client,
		state:   state,
		guildID: opts.GuildID,
		cursor:  newAscendingCursor(before, after, func(b model.BanPayload) snowflake.ID { return b.User.ID }, &cfg),
	}
	return paging.NewPager[model.BanPayload, *model.Ban](src, cfg, pagerOptions("bans", pagerOpts)...)
}

func (s *bansSource) FetchPage(ctx context.Context, limit int) (paging.PageResult[model.BanPayload], error) {
	bans, err := s.client.GetBans(ctx, s.guildID, s.cursor.params(limit))
	if err != nil {
		return paging.PageResult[model.BanPayload]{}, err
	}
	s.cursor.advance(bans)
	return paging.PageResult[model.BanPayload]{Items: bans}, nil
}

func (s *bansSource) Transform(_ context.Context, raw model.BanPayload) (*model.Ban, error) {
	return &model.Ban{User: s.state.StoreUser(raw.User), Reason: raw.Reason}, nil
}
