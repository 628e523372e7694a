// Package model holds the chat API wire payloads and the entities the
// iterators turn them into.
package model

import (
	"time"

	"github.com/samber/lo"

	"github.com/nrfta/chat-paging-go/snowflake"
)

// Participant is satisfied by *User and *Member. Endpoints that may or may not
// resolve guild membership (reactions, event subscribers) yield a Participant.
type Participant interface {
	UserID() snowflake.ID
	DisplayName() string
}

type User struct {
	ID            snowflake.ID
	Name          string
	Discriminator string
	GlobalName    *string
	Avatar        *string
	Bot           bool
}

// NewUser builds a User from its payload.
func NewUser(p UserPayload) *User {
	return &User{
		ID:            p.ID,
		Name:          p.Username,
		Discriminator: p.Discriminator,
		GlobalName:    p.GlobalName,
		Avatar:        p.Avatar,
		Bot:           p.Bot,
	}
}

func (u *User) UserID() snowflake.ID { return u.ID }

// DisplayName prefers the global name over the username.
func (u *User) DisplayName() string {
	if u.GlobalName != nil && *u.GlobalName != "" {
		return *u.GlobalName
	}
	return u.Name
}

// Member is a user's membership in a guild.
type Member struct {
	*User
	GuildID  snowflake.ID
	Nick     *string
	Roles    []snowflake.ID
	JoinedAt time.Time
	Pending  bool
}

// NewMember builds a Member. user is used when the payload carries no user of
// its own, as in scheduled-event subscriber responses.
func NewMember(guildID snowflake.ID, p MemberPayload, user *UserPayload) *Member {
	if p.User != nil {
		user = p.User
	}
	m := &Member{
		GuildID:  guildID,
		Nick:     p.Nick,
		Roles:    p.Roles,
		JoinedAt: p.JoinedAt,
		Pending:  p.Pending,
	}
	if user != nil {
		m.User = NewUser(*user)
	}
	return m
}

func (m *Member) UserID() snowflake.ID {
	if m.User == nil {
		return 0
	}
	return m.User.ID
}

// DisplayName prefers the guild nickname.
func (m *Member) DisplayName() string {
	if m.Nick != nil && *m.Nick != "" {
		return *m.Nick
	}
	if m.User == nil {
		return ""
	}
	return m.User.DisplayName()
}

type Message struct {
	ID        snowflake.ID
	ChannelID snowflake.ID
	GuildID   *snowflake.ID
	Author    Participant
	Content   string
	CreatedAt time.Time
	EditedAt  *time.Time
	Pinned    bool
	Type      int
}

type Ban struct {
	User   *User
	Reason *string
}

type Guild struct {
	ID          snowflake.ID
	Name        string
	Icon        *string
	Owner       bool
	Permissions string
	Features    []string
}

// NewGuild builds a partial Guild as listed for the current user.
func NewGuild(p GuildPayload) *Guild {
	return &Guild{
		ID:          p.ID,
		Name:        p.Name,
		Icon:        p.Icon,
		Owner:       p.Owner,
		Permissions: p.Permissions,
		Features:    p.Features,
	}
}

type ThreadMember struct {
	ThreadID snowflake.ID
	UserID   snowflake.ID
	JoinedAt time.Time
	Flags    int
}

type Thread struct {
	ID                  snowflake.ID
	GuildID             snowflake.ID
	ParentID            snowflake.ID
	OwnerID             snowflake.ID
	Name                string
	Type                int
	MessageCount        int
	MemberCount         int
	Archived            bool
	Locked              bool
	AutoArchiveDuration int
	ArchivedAt          time.Time

	// Me is the current user's membership, when the API reported one.
	Me *ThreadMember
}

// NewThread builds a Thread. An unparseable archive timestamp leaves ArchivedAt zero.
func NewThread(p ThreadPayload) *Thread {
	t := &Thread{
		ID:                  p.ID,
		GuildID:             p.GuildID,
		ParentID:            p.ParentID,
		OwnerID:             p.OwnerID,
		Name:                p.Name,
		Type:                p.Type,
		MessageCount:        p.MessageCount,
		MemberCount:         p.MemberCount,
		Archived:            p.ThreadMetadata.Archived,
		Locked:              p.ThreadMetadata.Locked,
		AutoArchiveDuration: p.ThreadMetadata.AutoArchiveDuration,
	}
	if at, err := ParseTime(p.ThreadMetadata.ArchiveTimestamp); err == nil {
		t.ArchivedAt = at.UTC()
	}
	if p.Member != nil {
		t.Me = &ThreadMember{
			ThreadID: p.ID,
			UserID:   lo.FromPtr(p.Member.UserID),
			JoinedAt: p.Member.JoinTimestamp,
			Flags:    p.Member.Flags,
		}
	}
	return t
}

type ScheduledEvent struct {
	ID             snowflake.ID
	GuildID        snowflake.ID
	ChannelID      *snowflake.ID
	Name           string
	ScheduledStart time.Time
	Status         int
}

type Integration struct {
	ID   snowflake.ID
	Name string
	Type string
}

type Webhook struct {
	ID        snowflake.ID
	Type      int
	ChannelID *snowflake.ID
	Name      string
}

type AutoModRule struct {
	ID          snowflake.ID
	GuildID     snowflake.ID
	Name        string
	EventType   int
	TriggerType int
	Enabled     bool
}

type ApplicationCommand struct {
	ID            snowflake.ID
	ApplicationID snowflake.ID
	Name          string
	Type          int
}

// ParseTime parses the ISO-8601 timestamps used by the API.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatTime renders t the way the API expects timestamp cursors.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000-07:00")
}
