package iterators

import (
	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// ascendingCursor pages an endpoint that always answers in ascending ID order
// (bans, guilds, scheduled-event users). With a before bound it walks
// backwards and each page is reversed so results stay newest first; otherwise
// it walks forwards from after.
type ascendingCursor[Raw any] struct {
	key func(Raw) snowflake.ID

	// only one of these is set
	before *snowflake.ID
	after  *snowflake.ID
}

// newAscendingCursor picks the direction and configures cfg to match.
// When both bounds are given, after becomes a filter.
func newAscendingCursor[Raw any](before, after *snowflake.ID, key func(Raw) snowflake.ID, cfg *paging.PagerConfig[Raw]) *ascendingCursor[Raw] {
	c := &ascendingCursor[Raw]{key: key}
	if before == nil {
		c.after = after
		return c
	}

	c.before = before
	cfg.Reverse = true
	if after != nil {
		bound := *after
		cfg.PostFilter = func(r Raw) bool { return bound < key(r) }
	}
	return c
}

func (c *ascendingCursor[Raw]) params(limit int) paging.FetchParams {
	return paging.FetchParams{Limit: limit, Before: c.before, After: c.after}
}

// advance moves the cursor past a non-empty page.
func (c *ascendingCursor[Raw]) advance(items []Raw) {
	if len(items) == 0 {
		return
	}
	if c.before != nil {
		c.before = c.key(items[0]).Ptr()
		return
	}
	c.after = c.key(items[len(items)-1]).Ptr()
}
