package model

import (
	"sync"

	"github.com/nrfta/chat-paging-go/snowflake"
)

// State is the entity cache the iterators consult while transforming payloads.
type State interface {
	// SelfID is the ID of the authenticated user.
	SelfID() snowflake.ID

	// StoreUser caches the user and returns the cached entity.
	StoreUser(p UserPayload) *User

	// Member returns a cached guild member.
	Member(guildID, userID snowflake.ID) (*Member, bool)

	// StoreMember caches the member and returns the cached entity.
	StoreMember(guildID snowflake.ID, p MemberPayload) *Member
}

type memberKey struct {
	guild snowflake.ID
	user  snowflake.ID
}

// MemoryState is an unbounded in-process State.
type MemoryState struct {
	self snowflake.ID

	mu      sync.RWMutex
	users   map[snowflake.ID]*User
	members map[memberKey]*Member
}

// NewMemoryState returns an empty cache for the given authenticated user.
func NewMemoryState(selfID snowflake.ID) *MemoryState {
	return &MemoryState{
		self:    selfID,
		users:   make(map[snowflake.ID]*User),
		members: make(map[memberKey]*Member),
	}
}

func (s *MemoryState) SelfID() snowflake.ID {
	return s.self
}

func (s *MemoryState) StoreUser(p UserPayload) *User {
	u := NewUser(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return u
}

// User returns a cached user.
func (s *MemoryState) User(id snowflake.ID) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *MemoryState) Member(guildID, userID snowflake.ID) (*Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberKey{guild: guildID, user: userID}]
	return m, ok
}

func (s *MemoryState) StoreMember(guildID snowflake.ID, p MemberPayload) *Member {
	m := NewMember(guildID, p, nil)
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.User != nil {
		s.users[m.User.ID] = m.User
		s.members[memberKey{guild: guildID, user: m.User.ID}] = m
	}
	return m
}
