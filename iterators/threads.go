package iterators

import (
	"context"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// minThreadsRequest is the smallest limit the archived-threads endpoints accept.
const minThreadsRequest = 2

// ArchivedThreadsClient fetches one page of archived threads of a channel.
type ArchivedThreadsClient interface {
	GetArchivedThreads(ctx context.Context, channelID snowflake.ID, query model.ArchivedThreadsQuery) (*model.ThreadListPayload, error)
}

type ArchivedThreadsOptions struct {
	ChannelID snowflake.ID `validate:"required"`

	// Joined lists only private threads the current user joined. Requires Private.
	Joined  bool
	Private bool

	Before *snowflake.Time
	After  *snowflake.Time
	Limit  *int
}

type ArchivedThreadsPager = paging.Pager[model.ThreadPayload, *model.Thread]

type archivedThreadsSource struct {
	client    ArchivedThreadsClient
	selfID    snowflake.ID
	channelID snowflake.ID
	kind      model.ThreadArchiveKind
	key       func(model.ThreadPayload) string

	// thread ID for the joined listing, archive timestamp otherwise
	before *string
}

// NewArchivedThreads pages backwards through a channel's archived threads.
//
// Public and private listings are ordered by archive time and use the
// timestamp of the last thread as cursor; the joined listing is ordered by
// thread ID. Pagination follows the endpoint's has_more flag rather than page
// length. After is applied as a filter.
func NewArchivedThreads(client ArchivedThreadsClient, state model.State, opts ArchivedThreadsOptions, pagerOpts ...paging.PagerOption) (*ArchivedThreadsPager, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	if opts.Joined && !opts.Private {
		return nil, paging.NewParameterError("joined", "cannot iterate over joined public archived threads")
	}

	before, after := snowflake.Convert(opts.Before, opts.After)
	// a short page may still have has_more set, so only an empty one ends pagination
	cfg := paging.PagerConfig[model.ThreadPayload]{
		Limit:               opts.Limit,
		MaxPageSize:         archivedThreadsPageSize,
		MinExpectedPageSize: 1,
	}
	src := &archivedThreadsSource{client: client, selfID: state.SelfID(), channelID: opts.ChannelID}

	if opts.Joined {
		src.kind = model.ArchivedJoinedPrivate
		src.key = func(t model.ThreadPayload) string { return t.ID.String() }
		if before != nil {
			s := before.String()
			src.before = &s
		}
		if after != nil {
			bound := *after
			cfg.PostFilter = func(t model.ThreadPayload) bool { return bound < t.ID }
		}
	} else {
		src.kind = model.ArchivedPublic
		if opts.Private {
			src.kind = model.ArchivedPrivate
		}
		src.key = func(t model.ThreadPayload) string { return t.ThreadMetadata.ArchiveTimestamp }
		if before != nil {
			s := model.FormatTime(before.Time())
			src.before = &s
		}
		if after != nil {
			bound := after.Time()
			cfg.PostFilter = func(t model.ThreadPayload) bool {
				archived, err := model.ParseTime(t.ThreadMetadata.ArchiveTimestamp)
				return err == nil && bound.Before(archived)
			}
		}
	}

	return paging.NewPager[model.ThreadPayload, *model.Thread](src, cfg, pagerOptions("archived_threads", pagerOpts)...)
}

func (s *archivedThreadsSource) FetchPage(ctx context.Context, limit int) (paging.PageResult[model.ThreadPayload], error) {
	page, err := s.client.GetArchivedThreads(ctx, s.channelID, model.ArchivedThreadsQuery{
		Kind:   s.kind,
		Before: s.before,
		Limit:  max(limit, minThreadsRequest),
	})
	if err != nil || page == nil {
		return paging.PageResult[model.ThreadPayload]{}, err
	}

	threads := page.Threads
	if len(threads) > limit {
		threads = threads[:limit]
	}
	if len(threads) == 0 {
		return paging.PageResult[model.ThreadPayload]{Last: true}, nil
	}

	s.attachMembers(threads, page.Members)
	next := s.key(threads[len(threads)-1])
	s.before = &next

	return paging.PageResult[model.ThreadPayload]{Items: threads, Last: !page.HasMore}, nil
}

// attachMembers sets the current user's thread membership on each thread it
// belongs to. Records for other users are ignored.
func (s *archivedThreadsSource) attachMembers(threads []model.ThreadPayload, members []model.ThreadMemberPayload) {
	mine := make(map[snowflake.ID]model.ThreadMemberPayload, len(members))
	for _, m := range members {
		if m.ID == nil || m.UserID == nil || *m.UserID != s.selfID {
			continue
		}
		mine[*m.ID] = m
	}
	for i := range threads {
		if m, ok := mine[threads[i].ID]; ok {
			threads[i].Member = &m
		}
	}
}

func (s *archivedThreadsSource) Transform(_ context.Context, raw model.ThreadPayload) (*model.Thread, error) {
	return model.NewThread(raw), nil
}
