package paging

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"time"
)

// PageSource is implemented once per paginated endpoint. The Pager drives it:
// FetchPage is called whenever the local buffer runs dry, and Transform turns
// each raw payload into the value handed to the consumer.
//
// FetchPage receives the number of items to request (always between 1 and the
// configured maximum page size) and is responsible for advancing its own cursor
// from the page it returns.
type PageSource[Raw, T any] interface {
	FetchPage(ctx context.Context, limit int) (PageResult[Raw], error)
	Transform(ctx context.Context, raw Raw) (T, error)
}

// PageResult is one page of raw payloads in the order the endpoint returned them.
type PageResult[Raw any] struct {
	Items []Raw

	// Last marks the page as the final one regardless of its length.
	Last bool
}

// PagerConfig tunes a Pager.
type PagerConfig[Raw any] struct {
	// Limit caps the total number of raw items fetched. Nil means unbounded.
	Limit *int

	// MaxPageSize is the largest page the endpoint serves.
	MaxPageSize int

	// MinExpectedPageSize is the page length below which the endpoint is
	// considered drained. Zero means MaxPageSize.
	MinExpectedPageSize int

	// Reverse flips each fetched page before it is yielded.
	Reverse bool

	// PostFilter is checked against every raw item before it is transformed.
	// The first rejection ends the sequence.
	PostFilter func(Raw) bool
}

// PagerOption configures optional Pager behaviour.
type PagerOption func(*pagerOptions)

type pagerOptions struct {
	logger *slog.Logger
	name   string
}

// WithLogger sets the logger used for per-page debug output.
func WithLogger(logger *slog.Logger) PagerOption {
	return func(o *pagerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName labels the pager in log output (e.g. "history").
func WithName(name string) PagerOption {
	return func(o *pagerOptions) {
		o.name = name
	}
}

type pagerState int

const (
	stateNeedFetch pagerState = iota
	stateBuffered
	stateExhausted
	stateFailed
)

// Pager is a Sequence over a paginated endpoint. It fetches pages lazily,
// only when the consumer asks for an element the buffer cannot supply.
//
// Pagination stops when the limit is used up, when a page comes back shorter
// than the minimum expected size, when the source marks a page as Last, or when
// PostFilter rejects an item. A fetch or transform error is returned from Next
// and from every call after it.
type Pager[Raw, T any] struct {
	src        PageSource[Raw, T]
	pages      *PageConfig
	reverse    bool
	postFilter func(Raw) bool
	logger     *slog.Logger
	name       string

	remaining int
	buffer    []Raw
	state     pagerState
	err       error

	fetches   int
	examined  int
	fetchTime time.Duration
}

// NewPager validates cfg and returns a Pager that has not fetched anything yet.
func NewPager[Raw, T any](src PageSource[Raw, T], cfg PagerConfig[Raw], opts ...PagerOption) (*Pager[Raw, T], error) {
	remaining := math.MaxInt
	if cfg.Limit != nil {
		if *cfg.Limit <= 0 {
			return nil, NewParameterError("limit", "must be greater than 0, got %d", *cfg.Limit)
		}
		remaining = *cfg.Limit
	}
	if cfg.MaxPageSize <= 0 {
		return nil, NewParameterError("max_page_size", "must be greater than 0, got %d", cfg.MaxPageSize)
	}

	o := &pagerOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}

	return &Pager[Raw, T]{
		src:        src,
		pages:      NewPageConfig(cfg.MaxPageSize).WithMinExpectedSize(cfg.MinExpectedPageSize),
		reverse:    cfg.Reverse,
		postFilter: cfg.PostFilter,
		logger:     o.logger,
		name:       o.name,
		remaining:  remaining,
		state:      stateNeedFetch,
	}, nil
}

// Next implements Sequence.
func (p *Pager[Raw, T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		switch p.state {
		case stateExhausted:
			return zero, Done
		case stateFailed:
			return zero, p.err
		case stateNeedFetch:
			if err := p.fill(ctx); err != nil {
				p.fail(err)
				return zero, err
			}
		case stateBuffered:
			if len(p.buffer) == 0 {
				p.state = stateNeedFetch
				continue
			}
			raw := p.buffer[0]
			p.buffer = p.buffer[1:]

			if p.postFilter != nil && !p.postFilter(raw) {
				p.exhaust()
				return zero, Done
			}

			item, err := p.src.Transform(ctx, raw)
			if err != nil {
				p.fail(err)
				return zero, err
			}
			return item, nil
		}
	}
}

func (p *Pager[Raw, T]) fill(ctx context.Context) error {
	limit := p.pages.NextLimit(p.remaining)
	if limit <= 0 {
		p.exhaust()
		return nil
	}

	start := time.Now()
	page, err := p.src.FetchPage(ctx, limit)
	p.fetchTime += time.Since(start)
	if err != nil {
		return err
	}

	n := len(page.Items)
	p.fetches++
	p.examined += n

	if p.reverse {
		slices.Reverse(page.Items)
	}

	p.remaining -= n
	if page.Last || p.pages.IsShort(n) {
		p.remaining = 0
	}

	p.logger.DebugContext(ctx, "fetched page",
		slog.String("source", p.name),
		slog.Int("requested", limit),
		slog.Int("received", n),
		slog.Int("remaining", p.remaining),
		slog.Int("fetch", p.fetches))

	if n == 0 {
		p.exhaust()
		return nil
	}

	p.buffer = page.Items
	p.state = stateBuffered
	return nil
}

func (p *Pager[Raw, T]) exhaust() {
	p.state = stateExhausted
	p.buffer = nil
}

func (p *Pager[Raw, T]) fail(err error) {
	p.state = stateFailed
	p.err = err
	p.buffer = nil
}

// Metadata reports how many fetches the pager has issued so far.
func (p *Pager[Raw, T]) Metadata() Metadata {
	return Metadata{
		Strategy:       "pager",
		QueryTimeMs:    p.fetchTime.Milliseconds(),
		ItemsExamined:  p.examined,
		IterationsUsed: p.fetches,
	}
}
