package paging

import "fmt"

const (
	// DefaultPageSize is the number of items returned per Paginate call when
	// PageArgs.First is not set.
	DefaultPageSize = 50

	// DefaultMaxPageSize caps PageArgs.First.
	DefaultMaxPageSize = 1000
)

// PageConfig is the page-size policy shared by the fetch engine and the
// Relay-style paginators.
//
// For a Pager, MaxSize is the largest page the endpoint serves and
// MinExpectedSize is the page length below which the source is considered
// drained. For a Paginator, DefaultSize and MaxSize govern PageArgs.First.
//
// Example:
//
//	config := paging.NewPageConfig(100).WithMinExpectedSize(1)
//	limit := config.NextLimit(remaining)
type PageConfig struct {
	// DefaultSize is the page size used when PageArgs.First is unset.
	DefaultSize int

	// MaxSize is the largest page requested from a source. Larger requests are capped.
	MaxSize int

	// MinExpectedSize is the shortest page that does not signal exhaustion.
	// Zero means MaxSize.
	MinExpectedSize int
}

// NewPageConfig creates a PageConfig serving pages of at most maxSize items.
// A non-positive maxSize falls back to DefaultMaxPageSize.
func NewPageConfig(maxSize int) *PageConfig {
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}
	return &PageConfig{
		DefaultSize: min(DefaultPageSize, maxSize),
		MaxSize:     maxSize,
	}
}

// WithDefaultSize sets the default page size and returns the config for chaining.
func (c *PageConfig) WithDefaultSize(size int) *PageConfig {
	if size > 0 {
		c.DefaultSize = size
	}
	return c
}

// WithMinExpectedSize sets the short-page threshold and returns the config for chaining.
func (c *PageConfig) WithMinExpectedSize(size int) *PageConfig {
	if size > 0 {
		c.MinExpectedSize = size
	}
	return c
}

// NextLimit returns how many items to request given how many may still be
// yielded. A result of 0 or less means no fetch should be issued.
func (c *PageConfig) NextLimit(remaining int) int {
	return min(c.MaxSize, remaining)
}

// IsShort reports whether a page of n items means the source has nothing more.
func (c *PageConfig) IsShort(n int) bool {
	minExpected := c.MinExpectedSize
	if minExpected <= 0 {
		minExpected = c.MaxSize
	}
	return n < minExpected
}

// EffectiveLimit returns the page size to use for args, applying defaults and caps.
func (c *PageConfig) EffectiveLimit(args *PageArgs) int {
	if c == nil {
		c = NewPageConfig(DefaultMaxPageSize)
	}

	defaultSize := c.DefaultSize
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}

	if args == nil || args.First == nil || *args.First <= 0 {
		return defaultSize
	}

	if *args.First > c.MaxSize {
		return c.MaxSize
	}

	return *args.First
}

// Validate rejects a PageArgs asking for more than MaxSize items.
func (c *PageConfig) Validate(args *PageArgs) error {
	if c == nil {
		c = NewPageConfig(DefaultMaxPageSize)
	}

	if args == nil || args.First == nil {
		return nil
	}

	if *args.First > c.MaxSize {
		return &PageSizeError{
			Requested: *args.First,
			Maximum:   c.MaxSize,
		}
	}

	return nil
}

// PageArgs represents Relay pagination query parameters: a page size (First)
// and an opaque cursor (After) returned by a previous page.
type PageArgs struct {
	First *int    `json:"first,omitempty"`
	After *string `json:"after,omitempty"`
}

// GetFirst returns the requested page size.
func (pa *PageArgs) GetFirst() *int {
	if pa == nil {
		return nil
	}
	return pa.First
}

// GetAfter returns the cursor position for pagination.
func (pa *PageArgs) GetAfter() *string {
	if pa == nil {
		return nil
	}
	return pa.After
}

// PageSizeError is returned when the requested page size exceeds the maximum allowed.
type PageSizeError struct {
	Requested int
	Maximum   int
}

func (e *PageSizeError) Error() string {
	return fmt.Sprintf("requested page size %d exceeds maximum allowed page size of %d",
		e.Requested, e.Maximum)
}
