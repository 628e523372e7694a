package model

import "github.com/nrfta/chat-paging-go/snowflake"

// NewMessage builds a Message. The author resolves to a cached guild member
// when one is known, then to the member shipped with the message, and
// otherwise to a plain user, which is cached in state.
func NewMessage(p MessagePayload, state State) *Message {
	return &Message{
		ID:        p.ID,
		ChannelID: p.ChannelID,
		GuildID:   p.GuildID,
		Author:    resolveAuthor(p, state),
		Content:   p.Content,
		CreatedAt: p.Timestamp,
		EditedAt:  p.EditedTimestamp,
		Pinned:    p.Pinned,
		Type:      p.Type,
	}
}

func resolveAuthor(p MessagePayload, state State) Participant {
	if state == nil {
		return NewUser(p.Author)
	}
	if p.GuildID != nil {
		if m, ok := state.Member(*p.GuildID, p.Author.ID); ok {
			return m
		}
		if p.Member != nil {
			return NewMember(*p.GuildID, *p.Member, &p.Author)
		}
	}
	return state.StoreUser(p.Author)
}

// ResolveParticipant returns the cached member of guildID for the user, or
// stores and returns the plain user. A zero guildID skips the member lookup.
func ResolveParticipant(state State, guildID snowflake.ID, p UserPayload) Participant {
	if !guildID.IsZero() {
		if m, ok := state.Member(guildID, p.ID); ok {
			return m
		}
	}
	return state.StoreUser(p)
}
