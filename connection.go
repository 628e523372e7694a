package paging

import (
	"context"
	"fmt"

	"github.com/friendsofgo/errors"
)

// Connection is a Relay-style page of items: edges carry a cursor per item,
// nodes carry the bare items.
//
//	type MessageConnection {
//	  edges: [MessageEdge!]!
//	  nodes: [Message!]!
//	  pageInfo: PageInfo!
//	}
type Connection[T any] struct {
	Edges    []Edge[T] `json:"edges"`
	Nodes    []T       `json:"nodes"`
	PageInfo PageInfo  `json:"pageInfo"`
}

// Edge pairs an item with the opaque cursor a client resumes from.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// BuildConnection converts items with transform and labels each one with
// cursorEncoder. The first transform error aborts the build.
//
//	conn, err := paging.BuildConnection(messages, pageInfo,
//		func(_ int, m *model.Message) string { return m.ID.String() },
//		toGraphQLMessage,
//	)
func BuildConnection[From any, To any](
	items []From,
	pageInfo PageInfo,
	cursorEncoder func(index int, item From) string,
	transform func(From) (To, error),
) (*Connection[To], error) {
	conn := &Connection[To]{
		Nodes:    make([]To, 0, len(items)),
		Edges:    make([]Edge[To], 0, len(items)),
		PageInfo: pageInfo,
	}

	for i, item := range items {
		transformed, err := transform(item)
		if err != nil {
			return nil, fmt.Errorf("transform item at index %d: %w", i, err)
		}

		conn.Nodes = append(conn.Nodes, transformed)
		conn.Edges = append(conn.Edges, Edge[To]{Cursor: cursorEncoder(i, item), Node: transformed})
	}
	return conn, nil
}

// CollectConnection reads up to first elements from seq into a Connection.
// It pulls one extra element to decide HasNextPage; that element is consumed
// from seq and dropped, so a sequence should not be read again afterwards.
// Cursors come from encoder; a nil encoder leaves them empty.
func CollectConnection[T any](
	ctx context.Context,
	seq Sequence[T],
	first int,
	encoder CursorEncoder[T],
) (*Connection[T], error) {
	if first <= 0 {
		return nil, NewParameterError("first", "must be greater than 0, got %d", first)
	}

	items := make([]T, 0, first+1)
	for len(items) < first+1 {
		item, err := seq.Next(ctx)
		if errors.Is(err, Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	hasNext := len(items) > first
	if hasNext {
		items = items[:first]
	}

	var encode func(T) (*string, error)
	if encoder != nil {
		encode = encoder.Encode
	}
	pageInfo := NewSequencePageInfo(items, hasNext, false, encode)

	return BuildConnection(items, pageInfo,
		func(i int, item T) string {
			if encode == nil {
				return ""
			}
			c, err := encode(item)
			if err != nil || c == nil {
				return ""
			}
			return *c
		},
		func(item T) (T, error) { return item, nil },
	)
}
