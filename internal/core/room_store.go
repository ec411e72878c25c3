package core

import (
	"sort"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultRoomCapacity = 3

// RoomInfo is a read-only view for APIs. Passwords never leave the store.
type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"member_count"`
	Capacity    int             `json:"capacity"`
}

// RoomStore is the in-memory room table. It is not safe for concurrent use:
// its owner must serialize every call, including reads through returned rooms.
type RoomStore struct {
	capacity int
	rooms    map[domain.RoomName]*domain.Room
}

func NewRoomStore(capacity int) *RoomStore {
	if capacity <= 0 {
		capacity = DefaultRoomCapacity
	}
	return &RoomStore{
		capacity: capacity,
		rooms:    make(map[domain.RoomName]*domain.Room),
	}
}

func (s *RoomStore) Capacity() int { return s.capacity }

// Create inserts a room with creator as its admin. The room is never
// observable without members.
func (s *RoomStore) Create(name domain.RoomName, password string, creator domain.Member) (*domain.Room, error) {
	if _, ok := s.rooms[name]; ok {
		return nil, domain.ErrRoomNameTaken
	}
	room := domain.NewRoom(name, password, s.capacity, creator)
	s.rooms[name] = room
	log.Info().Str("module", "core.store").Str("room", string(name)).Msg("room created")
	return room, nil
}

func (s *RoomStore) Get(name domain.RoomName) (*domain.Room, bool) {
	room, ok := s.rooms[name]
	return room, ok
}

// Delete removes the room. Callers only do this once it is empty.
func (s *RoomStore) Delete(name domain.RoomName) {
	if _, ok := s.rooms[name]; !ok {
		return
	}
	delete(s.rooms, name)
	log.Info().Str("module", "core.store").Str("room", string(name)).Msg("room deleted")
}

// FindByConn scans every room for the member bound to id.
func (s *RoomStore) FindByConn(id domain.ConnID) (*domain.Room, bool) {
	for _, room := range s.rooms {
		if _, ok := room.ByConn(id); ok {
			return room, true
		}
	}
	return nil, false
}

func (s *RoomStore) Len() int { return len(s.rooms) }

// List returns rooms sorted by name.
func (s *RoomStore) List() []RoomInfo {
	out := make([]RoomInfo, 0, len(s.rooms))
	for name, r := range s.rooms {
		out = append(out, RoomInfo{Name: name, MemberCount: r.Len(), Capacity: r.Capacity()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
