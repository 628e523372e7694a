// Package cursor encodes items into opaque Relay cursors and decodes them back
// into a resumable position.
//
// Chat collections are ordered by snowflake, so a cursor normally carries just
// the ID of the last item served. A caller resumes a sequence by decoding the
// cursor and passing the ID as the After (or Before) bound of an iterator:
//
//	encoder := cursor.NewSnowflakeEncoder(func(m *model.Message) snowflake.ID { return m.ID })
//	conn, _ := paging.CollectConnection(ctx, history, 50, encoder)
//
//	// later
//	if id := cursor.DecodeID(*conn.PageInfo.EndCursor); id != nil {
//	    opts.After = snowflake.Of(*id)
//	}
//
// Cursor Format:
//
//	Cursors are base64url-encoded JSON objects containing field values:
//	{"id":"881536165478499999"}
//	→ eyJpZCI6Ijg4MTUzNjE2NTQ3ODQ5OTk5OSJ9
//
// Composite cursors (for example archive time plus thread ID) use
// NewCompositeCursorEncoder with an extractor returning every field.
package cursor

import (
	"encoding/base64"

	jsoniter "github.com/json-iterator/go"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/snowflake"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IDKey is the cursor field holding a snowflake.
const IDKey = "id"

// CompositeCursorEncoder encodes multiple field values into an opaque cursor string.
// It implements the paging.CursorEncoder interface.
//
// Type parameter T is the item type (e.g., *model.Thread).
type CompositeCursorEncoder[T any] struct {
	// extractor returns the fields that identify an item's position.
	//
	// Example for threads ordered by archive time:
	//   func(t *model.Thread) map[string]any {
	//       return map[string]any{
	//           "archived_at": t.ArchivedAt,
	//           "id":          t.ID,
	//       }
	//   }
	extractor func(T) map[string]any
}

// NewCompositeCursorEncoder creates a cursor encoder from an extractor that
// returns the position fields of an item.
func NewCompositeCursorEncoder[T any](extractor func(T) map[string]any) paging.CursorEncoder[T] {
	return &CompositeCursorEncoder[T]{
		extractor: extractor,
	}
}

// NewSnowflakeEncoder creates a cursor encoder that stores only the item's ID
// under IDKey.
func NewSnowflakeEncoder[T any](id func(T) snowflake.ID) paging.CursorEncoder[T] {
	return &CompositeCursorEncoder[T]{
		extractor: func(item T) map[string]any {
			return map[string]any{IDKey: id(item)}
		},
	}
}

// Encode converts an item into an opaque cursor string.
//
// Returns nil if the item has no values or if encoding fails.
func (e *CompositeCursorEncoder[T]) Encode(item T) (*string, error) {
	values := e.extractor(item)
	if len(values) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, nil
	}

	encoded := base64.URLEncoding.EncodeToString(data)
	return &encoded, nil
}

// Decode extracts the cursor position from an opaque cursor string.
//
// Returns nil if the cursor is empty, invalid, or cannot be decoded, so an
// invalid cursor reads as "start from the beginning".
func (e *CompositeCursorEncoder[T]) Decode(cursor string) (*paging.CursorPosition, error) {
	return decode(cursor), nil
}

func decode(cursor string) *paging.CursorPosition {
	if cursor == "" {
		return nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil
	}

	var values map[string]any
	if err := json.Unmarshal(decoded, &values); err != nil {
		return nil
	}
	if len(values) == 0 {
		return nil
	}

	return &paging.CursorPosition{
		Values: values,
	}
}

// DecodeID returns the snowflake stored under IDKey in a cursor, or nil when
// the cursor is invalid or carries no ID.
func DecodeID(cursor string) *snowflake.ID {
	pos := decode(cursor)
	if pos == nil {
		return nil
	}

	var (
		id  snowflake.ID
		err error
	)
	switch v := pos.Values[IDKey].(type) {
	case string:
		id, err = snowflake.Parse(v)
	case float64:
		// numbers beyond 2^53 lose precision; encoders write strings
		id = snowflake.ID(v)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return &id
}
