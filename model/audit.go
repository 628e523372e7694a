package model

import (
	"github.com/samber/lo"

	"github.com/nrfta/chat-paging-go/snowflake"
)

// AuditLogAction is the numeric audit log event type.
type AuditLogAction int

const (
	ActionGuildUpdate             AuditLogAction = 1
	ActionChannelCreate           AuditLogAction = 10
	ActionMemberKick              AuditLogAction = 20
	ActionMemberBanAdd            AuditLogAction = 22
	ActionMemberBanRemove         AuditLogAction = 23
	ActionMemberUpdate            AuditLogAction = 24
	ActionWebhookCreate           AuditLogAction = 50
	ActionMessageDelete           AuditLogAction = 72
	ActionIntegrationCreate       AuditLogAction = 80
	ActionScheduledEventCreate    AuditLogAction = 100
	ActionThreadCreate            AuditLogAction = 110
	ActionCommandPermissionUpdate AuditLogAction = 121
	ActionAutoModRuleCreate       AuditLogAction = 140
	ActionAutoModBlockMessage     AuditLogAction = 143
	ActionAutoModTimeoutMember    AuditLogAction = 145
)

// TargetKind names the kind of object an action targets.
type TargetKind string

const (
	TargetNone               TargetKind = ""
	TargetUser               TargetKind = "user"
	TargetWebhook            TargetKind = "webhook"
	TargetIntegration        TargetKind = "integration"
	TargetScheduledEvent     TargetKind = "guild_scheduled_event"
	TargetThread             TargetKind = "thread"
	TargetAutoModRule        TargetKind = "auto_moderation_rule"
	TargetApplicationCommand TargetKind = "application_command"
)

// TargetKind reports which reference table holds the action's target.
// Targets that are never shipped with the audit log (channels, roles, invites)
// report TargetNone.
func (a AuditLogAction) TargetKind() TargetKind {
	switch {
	case a >= 20 && a < 30, a >= 72 && a < 80, a >= 143 && a < 150:
		return TargetUser
	case a >= 50 && a < 60:
		return TargetWebhook
	case a >= 80 && a < 83:
		return TargetIntegration
	case a >= 100 && a < 110:
		return TargetScheduledEvent
	case a >= 110 && a < 120:
		return TargetThread
	case a >= 121 && a < 130:
		return TargetApplicationCommand
	case a >= 140 && a < 143:
		return TargetAutoModRule
	}
	return TargetNone
}

// AuditLogReferences are the objects shipped alongside one page of audit log
// entries, keyed by ID. They are rebuilt for every page.
type AuditLogReferences struct {
	ApplicationCommands map[snowflake.ID]*ApplicationCommand
	AutoModRules        map[snowflake.ID]*AutoModRule
	ScheduledEvents     map[snowflake.ID]*ScheduledEvent
	Integrations        map[snowflake.ID]*Integration
	Threads             map[snowflake.ID]*Thread
	Users               map[snowflake.ID]*User
	Webhooks            map[snowflake.ID]*Webhook
}

// NewAuditLogReferences indexes the reference collections of an audit log page.
// Users are also stored in state.
func NewAuditLogReferences(p AuditLogPayload, state State) *AuditLogReferences {
	return &AuditLogReferences{
		ApplicationCommands: lo.SliceToMap(p.ApplicationCommands, func(c ApplicationCommandPayload) (snowflake.ID, *ApplicationCommand) {
			return c.ID, &ApplicationCommand{ID: c.ID, ApplicationID: c.ApplicationID, Name: c.Name, Type: c.Type}
		}),
		AutoModRules: lo.SliceToMap(p.AutoModerationRules, func(r AutoModRulePayload) (snowflake.ID, *AutoModRule) {
			return r.ID, &AutoModRule{ID: r.ID, GuildID: r.GuildID, Name: r.Name, EventType: r.EventType, TriggerType: r.TriggerType, Enabled: r.Enabled}
		}),
		ScheduledEvents: lo.SliceToMap(p.GuildScheduledEvents, func(e ScheduledEventPayload) (snowflake.ID, *ScheduledEvent) {
			return e.ID, &ScheduledEvent{ID: e.ID, GuildID: e.GuildID, ChannelID: e.ChannelID, Name: e.Name, ScheduledStart: e.ScheduledStart, Status: e.Status}
		}),
		Integrations: lo.SliceToMap(p.Integrations, func(i IntegrationPayload) (snowflake.ID, *Integration) {
			return i.ID, &Integration{ID: i.ID, Name: i.Name, Type: i.Type}
		}),
		Threads: lo.SliceToMap(p.Threads, func(t ThreadPayload) (snowflake.ID, *Thread) {
			return t.ID, NewThread(t)
		}),
		Users: lo.SliceToMap(p.Users, func(u UserPayload) (snowflake.ID, *User) {
			if state != nil {
				return u.ID, state.StoreUser(u)
			}
			return u.ID, NewUser(u)
		}),
		Webhooks: lo.SliceToMap(p.Webhooks, func(w WebhookPayload) (snowflake.ID, *Webhook) {
			return w.ID, &Webhook{ID: w.ID, Type: w.Type, ChannelID: w.ChannelID, Name: lo.FromPtr(w.Name)}
		}),
	}
}

// Target looks up the object an action points at. It returns nil when the
// kind is not shipped with audit logs or the object is missing from the page.
func (r *AuditLogReferences) Target(kind TargetKind, id snowflake.ID) any {
	switch kind {
	case TargetUser:
		return lookup(r.Users, id)
	case TargetWebhook:
		return lookup(r.Webhooks, id)
	case TargetIntegration:
		return lookup(r.Integrations, id)
	case TargetScheduledEvent:
		return lookup(r.ScheduledEvents, id)
	case TargetThread:
		return lookup(r.Threads, id)
	case TargetAutoModRule:
		return lookup(r.AutoModRules, id)
	case TargetApplicationCommand:
		return lookup(r.ApplicationCommands, id)
	}
	return nil
}

// lookup avoids returning a typed nil inside a non-nil interface.
func lookup[V any](m map[snowflake.ID]*V, id snowflake.ID) any {
	if v, ok := m[id]; ok {
		return v
	}
	return nil
}

type AuditLogChange struct {
	Key      string
	OldValue any
	NewValue any
}

type AuditLogEntry struct {
	ID       snowflake.ID
	GuildID  snowflake.ID
	Action   AuditLogAction
	UserID   *snowflake.ID
	TargetID *snowflake.ID
	Reason   *string
	Changes  []AuditLogChange
	Options  map[string]any

	// User is the actor, when the page shipped it.
	User *User

	// Target is the resolved target (*User, *Webhook, *Thread, ...), or nil.
	Target any
}

// NewAuditLogEntry builds an entry and resolves its actor and target against refs.
func NewAuditLogEntry(guildID snowflake.ID, p AuditLogEntryPayload, refs *AuditLogReferences) *AuditLogEntry {
	e := &AuditLogEntry{
		ID:      p.ID,
		GuildID: guildID,
		Action:  p.ActionType,
		UserID:  p.UserID,
		Reason:  p.Reason,
		Options: p.Options,
		Changes: lo.Map(p.Changes, func(c AuditLogChangePayload, _ int) AuditLogChange {
			return AuditLogChange{Key: c.Key, OldValue: c.OldValue, NewValue: c.NewValue}
		}),
	}
	if p.TargetID != nil {
		if id, err := snowflake.Parse(*p.TargetID); err == nil {
			e.TargetID = &id
		}
	}
	if refs == nil {
		return e
	}
	if p.UserID != nil {
		e.User = refs.Users[*p.UserID]
	}
	if e.TargetID != nil {
		e.Target = refs.Target(p.ActionType.TargetKind(), *e.TargetID)
	}
	return e
}
