package paging

// PageInfo contains metadata about a page of results.
// It uses function fields so expensive values (like a total count) are only
// computed when a caller asks for them.
type PageInfo struct {
	TotalCount      func() (*int, error)
	HasPreviousPage func() (bool, error)
	HasNextPage     func() (bool, error)
	StartCursor     func() (*string, error)
	EndCursor       func() (*string, error)
}

// NewSequencePageInfo returns PageInfo for a page read from a sequence. Cursors
// are computed lazily from the first and last items with encode; a nil encode
// yields nil cursors. Sequences are forward-only, so there is no total count.
func NewSequencePageInfo[T any](items []T, hasNext, hasPrevious bool, encode func(T) (*string, error)) PageInfo {
	return PageInfo{
		TotalCount: func() (*int, error) { return nil, nil },
		StartCursor: func() (*string, error) {
			if encode == nil || len(items) == 0 {
				return nil, nil
			}
			return encode(items[0])
		},
		EndCursor: func() (*string, error) {
			if encode == nil || len(items) == 0 {
				return nil, nil
			}
			return encode(items[len(items)-1])
		},
		HasNextPage:     func() (bool, error) { return hasNext, nil },
		HasPreviousPage: func() (bool, error) { return hasPrevious, nil },
	}
}

// NewEmptyPageInfo returns a empty instance of PageInfo. Useful for when working on a new page to be able to fullfil PageInfo requirements
func NewEmptyPageInfo() *PageInfo {
	return &PageInfo{
		TotalCount:      func() (*int, error) { return nil, nil },
		StartCursor:     func() (*string, error) { return nil, nil },
		EndCursor:       func() (*string, error) { return nil, nil },
		HasNextPage:     func() (bool, error) { return false, nil },
		HasPreviousPage: func() (bool, error) { return false, nil },
	}
}
