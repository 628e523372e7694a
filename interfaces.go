package paging

import (
	"context"

	"github.com/nrfta/chat-paging-go/snowflake"
)

// Paginator serves Relay-style pages (First/After) on top of a Sequence.
//
// Type parameter T is the item type being paginated (e.g. *model.Message).
//
// Implementations:
//   - quotafill.Wrapper: fills each page from a filtered sequence
type Paginator[T any] interface {
	// Paginate returns the next page of results.
	// The PageArgs contain the page size (First) and cursor position (After).
	Paginate(ctx context.Context, args *PageArgs) (*Page[T], error)
}

// Page represents a single page of paginated results.
// It contains the actual items, pagination metadata, and observability information.
type Page[T any] struct {
	// Nodes contains the items for this page.
	Nodes []T

	// PageInfo contains pagination metadata (hasNextPage, cursors, etc.)
	PageInfo *PageInfo

	// Metadata provides observability and debugging information.
	Metadata Metadata
}

// Metadata describes how a page or sequence was produced.
// Useful for monitoring request volume against the chat API.
type Metadata struct {
	// Strategy identifies what produced the items.
	// Values: "pager", "quotafill"
	Strategy string

	// QueryTimeMs is the total time spent waiting on page fetches.
	QueryTimeMs int64

	// ItemsExamined is the total number of raw items fetched from the source.
	// For quota-fill, this may be higher than the returned item count due to filtering.
	ItemsExamined int

	// IterationsUsed is the number of page fetches performed.
	IterationsUsed int

	// SafeguardHit indicates if a safeguard was triggered during quota-fill.
	// Values: nil (no safeguard), "max_iterations", "max_records", "timeout"
	SafeguardHit *string
}

// FetchParams is the position of a single page request against a
// snowflake-ordered collection. At most one of Before, After and Around is
// normally set; endpoints that accept several document how they combine.
type FetchParams struct {
	// Limit is the maximum number of items to fetch.
	Limit int

	// Before restricts results to IDs strictly below it.
	Before *snowflake.ID

	// After restricts results to IDs strictly above it.
	After *snowflake.ID

	// Around centres the page on an ID (message history only).
	Around *snowflake.ID
}

// CursorPosition is the decoded form of an opaque cursor.
//
// Example for a message cursor:
//
//	CursorPosition{
//	    Values: map[string]any{"id": "881536165478499999"},
//	}
type CursorPosition struct {
	// Values maps field names to their values at the cursor position.
	Values map[string]any
}

// FilterFunc is a batch filter for quota-fill pagination.
// It receives a batch of items and returns the subset to keep.
//
// Example permission filter:
//
//	filterFunc := func(ctx context.Context, msgs []*model.Message) ([]*model.Message, error) {
//	    return lo.Filter(msgs, func(m *model.Message, _ int) bool {
//	        return !m.Pinned
//	    }), nil
//	}
type FilterFunc[T any] func(ctx context.Context, items []T) ([]T, error)

// CursorEncoder converts items into opaque cursor strings and back.
type CursorEncoder[T any] interface {
	// Encode creates an opaque cursor string from an item.
	Encode(item T) (*string, error)

	// Decode extracts cursor position from an opaque cursor string.
	// Returns nil if the cursor is empty or invalid.
	Decode(cursor string) (*CursorPosition, error)
}
