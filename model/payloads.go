package model

import (
	"time"

	"github.com/nrfta/chat-paging-go/snowflake"
)

// Raw payloads as served by the chat REST API. Only the fields the
// iterators and the archive need are modelled.

type UserPayload struct {
	ID            snowflake.ID `json:"id"`
	Username      string       `json:"username"`
	Discriminator string       `json:"discriminator,omitempty"`
	GlobalName    *string      `json:"global_name,omitempty"`
	Avatar        *string      `json:"avatar,omitempty"`
	Bot           bool         `json:"bot,omitempty"`
}

type MemberPayload struct {
	User     *UserPayload   `json:"user,omitempty"`
	Nick     *string        `json:"nick,omitempty"`
	Roles    []snowflake.ID `json:"roles"`
	JoinedAt time.Time      `json:"joined_at"`
	Pending  bool           `json:"pending,omitempty"`
}

type MessagePayload struct {
	ID              snowflake.ID   `json:"id"`
	ChannelID       snowflake.ID   `json:"channel_id"`
	GuildID         *snowflake.ID  `json:"guild_id,omitempty"`
	Author          UserPayload    `json:"author"`
	Member          *MemberPayload `json:"member,omitempty"`
	Content         string         `json:"content"`
	Timestamp       time.Time      `json:"timestamp"`
	EditedTimestamp *time.Time     `json:"edited_timestamp,omitempty"`
	Pinned          bool           `json:"pinned"`
	Type            int            `json:"type"`
}

type BanPayload struct {
	Reason *string     `json:"reason"`
	User   UserPayload `json:"user"`
}

type GuildPayload struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Icon        *string      `json:"icon,omitempty"`
	Owner       bool         `json:"owner"`
	Permissions string       `json:"permissions"`
	Features    []string     `json:"features"`
}

type ThreadMetadataPayload struct {
	Archived            bool   `json:"archived"`
	AutoArchiveDuration int    `json:"auto_archive_duration"`
	ArchiveTimestamp    string `json:"archive_timestamp"`
	Locked              bool   `json:"locked"`
}

type ThreadMemberPayload struct {
	ID            *snowflake.ID `json:"id,omitempty"`
	UserID        *snowflake.ID `json:"user_id,omitempty"`
	JoinTimestamp time.Time     `json:"join_timestamp"`
	Flags         int           `json:"flags"`
}

type ThreadPayload struct {
	ID             snowflake.ID          `json:"id"`
	GuildID        snowflake.ID          `json:"guild_id"`
	ParentID       snowflake.ID          `json:"parent_id"`
	OwnerID        snowflake.ID          `json:"owner_id"`
	Name           string                `json:"name"`
	Type           int                   `json:"type"`
	MessageCount   int                   `json:"message_count"`
	MemberCount    int                   `json:"member_count"`
	ThreadMetadata ThreadMetadataPayload `json:"thread_metadata"`
	Member         *ThreadMemberPayload  `json:"member,omitempty"`
}

// ThreadListPayload is the envelope of every archived-threads endpoint.
type ThreadListPayload struct {
	Threads []ThreadPayload       `json:"threads"`
	Members []ThreadMemberPayload `json:"members"`
	HasMore bool                  `json:"has_more"`
}

type ScheduledEventPayload struct {
	ID             snowflake.ID  `json:"id"`
	GuildID        snowflake.ID  `json:"guild_id"`
	ChannelID      *snowflake.ID `json:"channel_id,omitempty"`
	Name           string        `json:"name"`
	ScheduledStart time.Time     `json:"scheduled_start_time"`
	Status         int           `json:"status"`
}

type ScheduledEventUserPayload struct {
	EventID snowflake.ID   `json:"guild_scheduled_event_id"`
	User    UserPayload    `json:"user"`
	Member  *MemberPayload `json:"member,omitempty"`
}

type IntegrationPayload struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
	Type string       `json:"type"`
}

type WebhookPayload struct {
	ID        snowflake.ID  `json:"id"`
	Type      int           `json:"type"`
	ChannelID *snowflake.ID `json:"channel_id,omitempty"`
	Name      *string       `json:"name,omitempty"`
}

type AutoModRulePayload struct {
	ID          snowflake.ID `json:"id"`
	GuildID     snowflake.ID `json:"guild_id"`
	Name        string       `json:"name"`
	EventType   int          `json:"event_type"`
	TriggerType int          `json:"trigger_type"`
	Enabled     bool         `json:"enabled"`
}

type ApplicationCommandPayload struct {
	ID            snowflake.ID `json:"id"`
	ApplicationID snowflake.ID `json:"application_id"`
	Name          string       `json:"name"`
	Type          int          `json:"type"`
}

type AuditLogChangePayload struct {
	Key      string `json:"key"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
}

type AuditLogEntryPayload struct {
	ID         snowflake.ID            `json:"id"`
	TargetID   *string                 `json:"target_id"`
	UserID     *snowflake.ID           `json:"user_id"`
	ActionType AuditLogAction          `json:"action_type"`
	Changes    []AuditLogChangePayload `json:"changes,omitempty"`
	Options    map[string]any          `json:"options,omitempty"`
	Reason     *string                 `json:"reason,omitempty"`
}

// AuditLogPayload is the audit log envelope. Besides the entries, each page
// carries every object the entries refer to.
type AuditLogPayload struct {
	ApplicationCommands  []ApplicationCommandPayload `json:"application_commands"`
	AuditLogEntries      []AuditLogEntryPayload      `json:"audit_log_entries"`
	AutoModerationRules  []AutoModRulePayload        `json:"auto_moderation_rules"`
	GuildScheduledEvents []ScheduledEventPayload     `json:"guild_scheduled_events"`
	Integrations         []IntegrationPayload        `json:"integrations"`
	Threads              []ThreadPayload             `json:"threads"`
	Users                []UserPayload               `json:"users"`
	Webhooks             []WebhookPayload            `json:"webhooks"`
}
