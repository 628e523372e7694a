package iterators

import (
	"context"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// HistoryClient fetches a page of channel messages. Results are always
// newest first; at most one of Before, After and Around is set.
type HistoryClient interface {
	GetMessages(ctx context.Context, channelID snowflake.ID, params paging.FetchParams) ([]model.MessagePayload, error)
}

type HistoryOptions struct {
	ChannelID snowflake.ID `validate:"required"`

	Before *snowflake.Time
	After  *snowflake.Time
	Around *snowflake.Time

	// Limit caps the number of messages. With Around it may not exceed 101.
	Limit *int

	// OldestFirst defaults to true when After is set.
	OldestFirst *bool
}

type HistoryPager = paging.Pager[model.MessagePayload, *model.Message]

type historySource struct {
	client    HistoryClient
	state     model.State
	channelID snowflake.ID

	// at most one of these is set
	before *snowflake.ID
	after  *snowflake.ID
	around *snowflake.ID
}

// NewHistory pages through a channel's messages.
//
// With Around a single request is made and Before/After only filter it.
// Otherwise the sequence pages backwards from Before (newest first) or, when
// reading oldest first, forwards from After, filtering on the other bound.
func NewHistory(client HistoryClient, state model.State, opts HistoryOptions, pagerOpts ...paging.PagerOption) (*HistoryPager, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if opts.Around != nil && limit != nil {
		// the API answers around requests with the next odd count, up to 101
		if *limit > maxAroundLimit {
			return nil, paging.NewParameterError("limit", "history limit is at most %d when around is set, got %d", maxAroundLimit, *limit)
		}
		if *limit == maxAroundLimit {
			capped := maxAroundLimit - 1
			limit = &capped
		}
	}

	before, after := snowflake.Convert(opts.Before, opts.After)
	around := snowflake.ResolvePtr(opts.Around, false)

	reverse := after != nil
	if opts.OldestFirst != nil {
		reverse = *opts.OldestFirst
	}

	cfg := paging.PagerConfig[model.MessagePayload]{
		Limit:       limit,
		MaxPageSize: historyPageSize,
		Reverse:     reverse,
	}
	src := &historySource{client: client, state: state, channelID: opts.ChannelID}

	switch {
	case around != nil:
		src.around = around
		cfg.PostFilter = windowFilter(before, after)
	case reverse:
		src.after = after
		if src.after == nil {
			src.after = snowflake.ID(0).Ptr()
		}
		cfg.PostFilter = windowFilter(before, nil)
	default:
		src.before = before
		cfg.PostFilter = windowFilter(nil, after)
	}

	return paging.NewPager[model.MessagePayload, *model.Message](src, cfg, pagerOptions("history", pagerOpts)...)
}

// windowFilter keeps messages strictly between after and before.
func windowFilter(before, after *snowflake.ID) func(model.MessagePayload) bool {
	if before == nil && after == nil {
		return nil
	}
	return func(m model.MessagePayload) bool {
		if before != nil && m.ID >= *before {
			return false
		}
		if after != nil && m.ID <= *after {
			return false
		}
		return true
	}
}

func (s *historySource) FetchPage(ctx context.Context, limit int) (paging.PageResult[model.MessagePayload], error) {
	msgs, err := s.client.GetMessages(ctx, s.channelID, paging.FetchParams{
		Limit:  limit,
		Before: s.before,
		After:  s.after,
		Around: s.around,
	})
	if err != nil || len(msgs) == 0 {
		return paging.PageResult[model.MessagePayload]{}, err
	}

	switch {
	case s.around != nil:
		return paging.PageResult[model.MessagePayload]{Items: msgs, Last: true}, nil
	case s.after != nil:
		s.after = msgs[0].ID.Ptr()
	default:
		s.before = msgs[len(msgs)-1].ID.Ptr()
	}
	return paging.PageResult[model.MessagePayload]{Items: msgs}, nil
}

func (s *historySource) Transform(_ context.Context, raw model.MessagePayload) (*model.Message, error) {
	return model.NewMessage(raw, s.state), nil
}
