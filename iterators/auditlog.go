package iterators

import (
	"context"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// AuditLogClient fetches a page of a guild's audit log, newest first.
type AuditLogClient interface {
	GetAuditLog(ctx context.Context, guildID snowflake.ID, query model.AuditLogQuery) (*model.AuditLogPayload, error)
}

type AuditLogOptions struct {
	GuildID snowflake.ID `validate:"required"`

	// UserID restricts entries to actions taken by one user.
	UserID *snowflake.ID

	// ActionType restricts entries to one kind of action.
	ActionType *model.AuditLogAction

	Before *snowflake.Time
	After  *snowflake.Time
	Limit  *int
}

type AuditLogPager = paging.Pager[model.AuditLogEntryPayload, *model.AuditLogEntry]

type auditLogSource struct {
	client AuditLogClient
	state  model.State
	opts   AuditLogOptions
	before *snowflake.ID

	// refs belong to the page currently being yielded
	refs *model.AuditLogReferences
}

// NewAuditLog pages backwards through a guild's audit log.
// After is applied as a filter.
func NewAuditLog(client AuditLogClient, state model.State, opts AuditLogOptions, pagerOpts ...paging.PagerOption) (*AuditLogPager, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	before, after := snowflake.Convert(opts.Before, opts.After)
	cfg := paging.PagerConfig[model.AuditLogEntryPayload]{
		Limit:       opts.Limit,
		MaxPageSize: auditLogPageSize,
	}
	if after != nil {
		bound := *after
		cfg.PostFilter = func(e model.AuditLogEntryPayload) bool { return bound < e.ID }
	}

	src := &auditLogSource{client: client, state: state, opts: opts, before: before}
	return paging.NewPager[model.AuditLogEntryPayload, *model.AuditLogEntry](src, cfg, pagerOptions("audit_log", pagerOpts)...)
}

func (s *auditLogSource) FetchPage(ctx context.Context, limit int) (paging.PageResult[model.AuditLogEntryPayload], error) {
	page, err := s.client.GetAuditLog(ctx, s.opts.GuildID, model.AuditLogQuery{
		Limit:      limit,
		Before:     s.before,
		UserID:     s.opts.UserID,
		ActionType: s.opts.ActionType,
	})
	if err != nil || page == nil || len(page.AuditLogEntries) == 0 {
		return paging.PageResult[model.AuditLogEntryPayload]{}, err
	}

	entries := page.AuditLogEntries
	s.before = entries[len(entries)-1].ID.Ptr()
	s.refs = model.NewAuditLogReferences(*page, s.state)

	return paging.PageResult[model.AuditLogEntryPayload]{Items: entries}, nil
}

func (s *auditLogSource) Transform(_ context.Context, raw model.AuditLogEntryPayload) (*model.AuditLogEntry, error) {
	return model.NewAuditLogEntry(s.opts.GuildID, raw, s.refs), nil
}
