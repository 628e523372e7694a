// Package quotafill serves Relay pages of a fixed size from a sequence whose
// items are filtered after they are fetched, such as messages the viewer is
// allowed to see or reactions from non-bot users.
//
// Each Paginate call keeps pulling batches from the sequence and filtering
// them until the requested page is full (plus one item to detect a next
// page), the sequence ends, or a safeguard trips.
package quotafill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nrfta/chat-paging-go"
)

// Default configuration values
const (
	defaultMaxIterations      = 5
	defaultMaxRecordsExamined = 500
	defaultTimeout            = 3 * time.Second
)

// Default adaptive backoff multipliers (Fibonacci-like progression)
var defaultBackoffMultipliers = []int{1, 2, 3, 5, 8}

// Safeguard identifiers returned in Metadata.SafeguardHit
const (
	safeguardTimeout       = "timeout"
	safeguardMaxRecords    = "max_records"
	safeguardMaxIterations = "max_iterations"
)

// Wrapper fills pages from a filtered sequence. It implements paging.Paginator.
//
// The sequence is single-pass, so successive Paginate calls continue where
// the previous call stopped: filtered items beyond the page (including the
// look-ahead item) are carried into the next call. PageArgs.After is only
// used to report HasPreviousPage.
//
// A Wrapper is not safe for concurrent use.
//
// Type parameter T is the item type being paginated and filtered.
type Wrapper[T any] struct {
	seq                paging.Sequence[T]
	filter             paging.FilterFunc[T]
	encoder            paging.CursorEncoder[T]
	pageConfig         *paging.PageConfig
	maxIterations      int
	maxRecordsExamined int
	timeout            time.Duration
	backoffMultipliers []int

	carry     []T
	exhausted bool
	sticky    error
}

var _ paging.Paginator[int] = (*Wrapper[int])(nil)

// Option configures a quota-fill wrapper.
type Option func(*config)

// config holds wrapper configuration.
type config struct {
	pageConfig         *paging.PageConfig
	maxIterations      int
	maxRecordsExamined int
	timeout            time.Duration
	backoffMultipliers []int
}

// WithMaxIterations sets the maximum number of batches pulled per page.
// Default: 5
//
// If the maximum is reached, partial results are returned with a safeguard warning.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		c.maxIterations = n
	}
}

// WithMaxRecordsExamined sets the maximum number of sequence items examined per page.
// Default: 500
//
// This bounds the number of API requests a very selective filter can cause.
func WithMaxRecordsExamined(n int) Option {
	return func(c *config) {
		c.maxRecordsExamined = n
	}
}

// WithTimeout sets the time budget of a single Paginate call.
// Default: 3 seconds
//
// The budget is checked between batches; a batch in flight is not interrupted.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithBackoffMultipliers sets the adaptive backoff multipliers.
// Default: [1, 2, 3, 5, 8]
//
// Batch i pulls (remaining quota) * multipliers[i] items; the last multiplier
// repeats.
func WithBackoffMultipliers(multipliers []int) Option {
	return func(c *config) {
		c.backoffMultipliers = multipliers
	}
}

// WithPageConfig sets the default and maximum page size.
// Default: paging.NewPageConfig(paging.DefaultMaxPageSize)
func WithPageConfig(pc *paging.PageConfig) Option {
	return func(c *config) {
		c.pageConfig = pc
	}
}

// Wrap serves pages from seq, keeping only the items filter returns.
//
// Parameters:
//   - seq: the source sequence, typically an iterators pager
//   - filter: Filter function applied to each batch
//   - encoder: Cursor encoder for PageInfo cursors (nil leaves cursors empty)
//   - opts: Optional configuration (WithMaxIterations, WithMaxRecordsExamined, etc.)
//
// Example hiding bot messages:
//
//	history, _ := iterators.NewHistory(client, state, iterators.HistoryOptions{ChannelID: id})
//	humans := func(ctx context.Context, msgs []*model.Message) ([]*model.Message, error) {
//	    return lo.Filter(msgs, func(m *model.Message, _ int) bool {
//	        u, ok := m.Author.(*model.User)
//	        return !ok || !u.Bot
//	    }), nil
//	}
//	paginator := quotafill.Wrap(history, humans,
//	    cursor.NewSnowflakeEncoder(func(m *model.Message) snowflake.ID { return m.ID }),
//	    quotafill.WithMaxRecordsExamined(1000),
//	)
func Wrap[T any](
	seq paging.Sequence[T],
	filter paging.FilterFunc[T],
	encoder paging.CursorEncoder[T],
	opts ...Option,
) *Wrapper[T] {
	cfg := &config{
		pageConfig:         paging.NewPageConfig(paging.DefaultMaxPageSize),
		maxIterations:      defaultMaxIterations,
		maxRecordsExamined: defaultMaxRecordsExamined,
		timeout:            defaultTimeout,
		backoffMultipliers: defaultBackoffMultipliers,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Wrapper[T]{
		seq:                seq,
		filter:             filter,
		encoder:            encoder,
		pageConfig:         cfg.pageConfig,
		maxIterations:      cfg.maxIterations,
		maxRecordsExamined: cfg.maxRecordsExamined,
		timeout:            cfg.timeout,
		backoffMultipliers: cfg.backoffMultipliers,
	}
}

// getMultiplier returns the backoff multiplier for the given iteration.
func (w *Wrapper[T]) getMultiplier(iteration int) int {
	if len(w.backoffMultipliers) == 0 {
		return 1
	}
	return w.backoffMultipliers[min(iteration, len(w.backoffMultipliers)-1)]
}

// Paginate implements the Paginator interface with quota-fill logic.
//
// Algorithm:
//  1. Start from the items carried over from the previous call
//  2. Loop while fewer than requestedPageSize + 1 items are held:
//     a. Check safeguards: maxIterations, maxRecordsExamined, timeout
//     b. Pull (remaining quota) * backoffMultiplier[iteration] items from the sequence
//     c. Apply the filter function to the batch
//     d. Stop once the sequence reports paging.Done
//  3. Return requestedPageSize items and carry the rest
//
// A sequence or filter error is returned and repeated by every later call.
func (w *Wrapper[T]) Paginate(ctx context.Context, args *paging.PageArgs) (*paging.Page[T], error) {
	if w.sticky != nil {
		return nil, w.sticky
	}
	if err := w.pageConfig.Validate(args); err != nil {
		return nil, err
	}

	startTime := time.Now()
	deadline := startTime.Add(w.timeout)

	requestedSize := w.pageConfig.EffectiveLimit(args)
	targetSize := requestedSize + 1 // N+1 pattern for hasNextPage detection

	state := &paginationState[T]{
		filteredItems: w.carry,
	}
	w.carry = nil

	for len(state.filteredItems) < targetSize && !w.exhausted {
		if state.iteration >= w.maxIterations {
			state.safeguardHit = stringPtr(safeguardMaxIterations)
			break
		}
		if safeguard := w.fetchIteration(ctx, deadline, targetSize, state); safeguard != "" {
			state.safeguardHit = stringPtr(safeguard)
			break
		}
		if state.lastError != nil {
			w.sticky = state.lastError
			return nil, state.lastError
		}
	}

	return w.buildResult(state, args, requestedSize, startTime), nil
}

// paginationState tracks state across fetch iterations of one call.
type paginationState[T any] struct {
	filteredItems []T
	examinedCount int
	iteration     int
	safeguardHit  *string
	lastError     error
}

// fetchIteration performs a single pull-filter cycle. Returns the safeguard name
// if one triggered, empty string otherwise.
func (w *Wrapper[T]) fetchIteration(
	ctx context.Context,
	deadline time.Time,
	targetSize int,
	state *paginationState[T],
) string {
	if !time.Now().Before(deadline) {
		return safeguardTimeout
	}

	remaining := targetSize - len(state.filteredItems)
	batchSize := remaining * w.getMultiplier(state.iteration)

	if state.examinedCount >= w.maxRecordsExamined {
		return safeguardMaxRecords
	}
	batchSize = min(batchSize, w.maxRecordsExamined-state.examinedCount)

	batch, err := w.pull(ctx, batchSize)
	state.examinedCount += len(batch)
	state.iteration++
	if err != nil {
		state.lastError = fmt.Errorf("fetch batch (iteration %d): %w", state.iteration, err)
		return ""
	}
	if len(batch) == 0 {
		return ""
	}

	filtered, err := w.filter(ctx, batch)
	if err != nil {
		state.lastError = fmt.Errorf("apply filter (iteration %d): %w", state.iteration, err)
		return ""
	}

	state.filteredItems = append(state.filteredItems, filtered...)
	return ""
}

// pull reads up to n items from the sequence, marking the wrapper exhausted
// when the sequence ends.
func (w *Wrapper[T]) pull(ctx context.Context, n int) ([]T, error) {
	batch := make([]T, 0, n)
	for len(batch) < n {
		item, err := w.seq.Next(ctx)
		if errors.Is(err, paging.Done) {
			w.exhausted = true
			break
		}
		if err != nil {
			return batch, err
		}
		batch = append(batch, item)
	}
	return batch, nil
}

// buildResult constructs the final Page and keeps the surplus for the next call.
func (w *Wrapper[T]) buildResult(
	state *paginationState[T],
	args *paging.PageArgs,
	requestedSize int,
	startTime time.Time,
) *paging.Page[T] {
	resultItems := state.filteredItems
	if len(resultItems) > requestedSize {
		w.carry = append([]T(nil), resultItems[requestedSize:]...)
		resultItems = resultItems[:requestedSize]
	}

	// a safeguard leaves the sequence resumable
	hasNextPage := len(w.carry) > 0 || (state.safeguardHit != nil && !w.exhausted)

	var encode func(T) (*string, error)
	if w.encoder != nil {
		encode = w.encoder.Encode
	}
	pageInfo := paging.NewSequencePageInfo(resultItems, hasNextPage, args.GetAfter() != nil, encode)

	return &paging.Page[T]{
		Nodes:    resultItems,
		PageInfo: &pageInfo,
		Metadata: paging.Metadata{
			Strategy:       "quotafill",
			QueryTimeMs:    time.Since(startTime).Milliseconds(),
			ItemsExamined:  state.examinedCount,
			IterationsUsed: state.iteration,
			SafeguardHit:   state.safeguardHit,
		},
	}
}

// stringPtr returns a pointer to the given string.
func stringPtr(s string) *string {
	return &s
}
