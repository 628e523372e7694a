package iterators

import (
	"context"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// ScheduledEventUsersClient fetches a page of users subscribed to a scheduled
// event, ascending by user ID.
type ScheduledEventUsersClient interface {
	GetScheduledEventUsers(ctx context.Context, guildID, eventID snowflake.ID, query model.ScheduledEventUsersQuery) ([]model.ScheduledEventUserPayload, error)
}

type ScheduledEventUsersOptions struct {
	GuildID snowflake.ID `validate:"required"`
	EventID snowflake.ID `validate:"required"`

	// WithMembers asks the API to include guild member data.
	WithMembers bool

	Before *snowflake.Time
	After  *snowflake.Time
	Limit  *int
}

// ScheduledEventUsersPager yields *model.Member when member data is available
// and *model.User otherwise.
type ScheduledEventUsersPager = paging.Pager[model.ScheduledEventUserPayload, model.Participant]

type eventUsersSource struct {
	client ScheduledEventUsersClient
	state  model.State
	opts   ScheduledEventUsersOptions
	cursor *ascendingCursor[model.ScheduledEventUserPayload]
}

// NewScheduledEventUsers pages through the subscribers of a scheduled event.
func NewScheduledEventUsers(client ScheduledEventUsersClient, state model.State, opts ScheduledEventUsersOptions, pagerOpts ...paging.PagerOption) (*ScheduledEventUsersPager, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	before, after := snowflake.Convert(opts.Before, opts.After)
	cfg := paging.PagerConfig[model.ScheduledEventUserPayload]{
		Limit:       opts.Limit,
		MaxPageSize: eventUsersPageSize,
	}
	src := &eventUsersSource{
		client: client,
		state:  state,
		opts:   opts,
		cursor: newAscendingCursor(before, after, func(u model.ScheduledEventUserPayload) snowflake.ID { return u.User.ID }, &cfg),
	}
	return paging.NewPager[model.ScheduledEventUserPayload, model.Participant](src, cfg, pagerOptions("scheduled_event_users", pagerOpts)...)
}

func (s *eventUsersSource) FetchPage(ctx context.Context, limit int) (paging.PageResult[model.ScheduledEventUserPayload], error) {
	params := s.cursor.params(limit)
	users, err := s.client.GetScheduledEventUsers(ctx, s.opts.GuildID, s.opts.EventID, model.ScheduledEventUsersQuery{
		Limit:      params.Limit,
		WithMember: s.opts.WithMembers,
		Before:     params.Before,
		After:      params.After,
	})
	if err != nil {
		return paging.PageResult[model.ScheduledEventUserPayload]{}, err
	}
	s.cursor.advance(users)
	return paging.PageResult[model.ScheduledEventUserPayload]{Items: users}, nil
}

// Transform prefers an already cached member, then the member shipped with
// the payload, and falls back to the plain user.
func (s *eventUsersSource) Transform(_ context.Context, raw model.ScheduledEventUserPayload) (model.Participant, error) {
	if raw.Member == nil {
		return s.state.StoreUser(raw.User), nil
	}
	if m, ok := s.state.Member(s.opts.GuildID, raw.User.ID); ok {
		return m, nil
	}
	return model.NewMember(s.opts.GuildID, *raw.Member, &raw.User), nil
}
