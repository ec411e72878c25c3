package domain

type RoomName string

// Room is a password-gated, capacity-bound group of members.
// Members are kept in join order; the first one is the succession heir.
type Room struct {
	Name     RoomName
	password string
	capacity int
	members  []*Member
}

// NewRoom creates a room whose only member is the creator, marked admin.
func NewRoom(name RoomName, password string, capacity int, creator Member) *Room {
	creator.IsAdmin = true
	return &Room{
		Name:     name,
		password: password,
		capacity: capacity,
		members:  []*Member{&creator},
	}
}

func (r *Room) CheckPassword(password string) bool { return r.password == password }

func (r *Room) Capacity() int { return r.capacity }

func (r *Room) Len() int { return len(r.members) }

func (r *Room) Empty() bool { return len(r.members) == 0 }

func (r *Room) Full() bool { return len(r.members) >= r.capacity }

// Add appends a non-admin member after checking capacity and name collisions.
func (r *Room) Add(m Member) (*Member, error) {
	if r.Full() {
		return nil, ErrRoomFull
	}
	if _, ok := r.ByUsername(m.Username); ok {
		return nil, ErrUsernameTaken
	}
	m.IsAdmin = false
	r.members = append(r.members, &m)
	return &m, nil
}

// Remove deletes the member bound to id and returns it.
func (r *Room) Remove(id ConnID) (*Member, bool) {
	for i, m := range r.members {
		if m.ConnID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return m, true
		}
	}
	return nil, false
}

// PromoteFirst makes the earliest remaining joiner admin.
func (r *Room) PromoteFirst() (*Member, bool) {
	if len(r.members) == 0 {
		return nil, false
	}
	heir := r.members[0]
	heir.IsAdmin = true
	return heir, true
}

func (r *Room) ByConn(id ConnID) (*Member, bool) {
	for _, m := range r.members {
		if m.ConnID == id {
			return m, true
		}
	}
	return nil, false
}

func (r *Room) ByUsername(username string) (*Member, bool) {
	for _, m := range r.members {
		if SameUsername(m.Username, username) {
			return m, true
		}
	}
	return nil, false
}

// Admin returns the current admin, if any.
func (r *Room) Admin() (*Member, bool) {
	for _, m := range r.members {
		if m.IsAdmin {
			return m, true
		}
	}
	return nil, false
}

// Members returns copies of the members in join order.
func (r *Room) Members() []Member {
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, *m)
	}
	return out
}

// Snapshot is the wire view of the member list.
func (r *Room) Snapshot() []MemberDTO {
	out := make([]MemberDTO, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m.DTO())
	}
	return out
}
