package model

import "github.com/nrfta/chat-paging-go/snowflake"

// AuditLogQuery holds the audit log request parameters besides the page position.
type AuditLogQuery struct {
	Limit      int
	Before     *snowflake.ID
	UserID     *snowflake.ID
	ActionType *AuditLogAction
}

// ThreadArchiveKind selects one of the three archived-thread listings.
type ThreadArchiveKind int

const (
	// ArchivedPublic lists public archived threads.
	ArchivedPublic ThreadArchiveKind = iota
	// ArchivedPrivate lists private archived threads (requires manage threads).
	ArchivedPrivate
	// ArchivedJoinedPrivate lists private archived threads the current user joined.
	ArchivedJoinedPrivate
)

func (k ThreadArchiveKind) String() string {
	switch k {
	case ArchivedPublic:
		return "public"
	case ArchivedPrivate:
		return "private"
	case ArchivedJoinedPrivate:
		return "joined_private"
	}
	return "unknown"
}

// ArchivedThreadsQuery is one archived-threads request. Before is an ISO-8601
// archive timestamp for the public and private listings and a thread ID for
// the joined listing.
type ArchivedThreadsQuery struct {
	Kind   ThreadArchiveKind
	Before *string
	Limit  int
}

// ScheduledEventUsersQuery is one scheduled-event subscriber request.
type ScheduledEventUsersQuery struct {
	Limit      int
	WithMember bool
	Before     *snowflake.ID
	After      *snowflake.ID
}
