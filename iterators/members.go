package iterators

import (
	"context"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// MembersClient fetches a page of guild members, ascending by user ID.
// Only After paging is supported.
type MembersClient interface {
	GetMembers(ctx context.Context, guildID snowflake.ID, params paging.FetchParams) ([]model.MemberPayload, error)
}

type MembersOptions struct {
	GuildID snowflake.ID `validate:"required"`
	Before  *snowflake.Time
	After   *snowflake.Time
	Limit   *int
}

type MembersPager = paging.Pager[model.MemberPayload, *model.Member]

type membersSource struct {
	client  MembersClient
	state   model.State
	guildID snowflake.ID
	after   *snowflake.ID
}

// NewMembers pages forwards through a guild's member list.
// Before is applied as a filter. Every member is stored in state.
func NewMembers(client MembersClient, state model.State, opts MembersOptions, pagerOpts ...paging.PagerOption) (*MembersPager, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	before, after := snowflake.Convert(opts.Before, opts.After)
	cfg := paging.PagerConfig[model.MemberPayload]{
		Limit:       opts.Limit,
		MaxPageSize: membersPageSize,
	}
	if before != nil {
		bound := *before
		cfg.PostFilter = func(m model.MemberPayload) bool { return userIDOf(m) < bound }
	}

	src := &membersSource{client: client, state: state, guildID: opts.GuildID, after: after}
	return paging.NewPager[model.MemberPayload, *model.Member](src, cfg, pagerOptions("members", pagerOpts)...)
}

func (s *membersSource) FetchPage(ctx context.Context, limit int) (paging.PageResult[model.MemberPayload], error) {
	members, err := s.client.GetMembers(ctx, s.guildID, paging.FetchParams{Limit: limit, After: s.after})
	if err != nil {
		return paging.PageResult[model.MemberPayload]{}, err
	}
	if len(members) > 0 {
		s.after = userIDOf(members[len(members)-1]).Ptr()
	}
	return paging.PageResult[model.MemberPayload]{Items: members}, nil
}

func (s *membersSource) Transform(_ context.Context, raw model.MemberPayload) (*model.Member, error) {
	return s.state.StoreMember(s.guildID, raw), nil
}
