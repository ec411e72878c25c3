package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

func validateEntry(roomName, username, password string) (string, error) {
	name, err := domain.NormalizeUsername(username)
	if err != nil {
		return "", err
	}
	if roomName == "" {
		return "", domain.ErrMissingRoomName
	}
	if password == "" {
		return "", domain.ErrMissingPassword
	}
	return name, nil
}

// CreateRoom creates roomName with the caller as its admin.
func (o *Orchestrator) CreateRoom(id domain.ConnID, roomName, username, password string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	name, err := validateEntry(roomName, username, password)
	if err == nil && o.Registry.Session(id).Joined() {
		err = domain.ErrAlreadyInRoom
	}
	var room *domain.Room
	if err == nil {
		room, err = o.Rooms.Create(domain.RoomName(roomName), password, domain.Member{ConnID: id, Username: name})
	}
	if err != nil {
		log.Info().Err(err).Str("module", "orch").Str("sid", string(id)).Str("room", roomName).Msg("create rejected")
		_ = o.send(id, failure(EventRoomCreation, err))
		return err
	}

	creator, _ := room.ByConn(id)
	o.Registry.SetSession(id, app.Session{RoomName: room.Name, Member: *creator})
	log.Info().Str("module", "orch").Str("sid", string(id)).Str("room", roomName).Str("username", name).Msg("joined as admin")

	isAdmin := true
	_ = o.send(id, Ack{Type: EventRoomCreation, Success: true, Message: fmt.Sprintf("Room %s created successfully.", roomName)})
	_ = o.send(id, JoinedRoom{
		Type:     EventJoinedRoom,
		Success:  true,
		Message:  fmt.Sprintf("Successfully joined %s as admin.", roomName),
		RoomName: room.Name,
		Username: name,
		IsAdmin:  &isAdmin,
	})
	_ = o.send(id, roomUsers(fmt.Sprintf("Welcome to the room, %s!", name), room))
	return nil
}

// JoinRoom adds the caller to an existing room as a regular member.
func (o *Orchestrator) JoinRoom(id domain.ConnID, roomName, username, password string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	member, room, err := o.join(id, roomName, username, password)
	if err != nil {
		log.Info().Err(err).Str("module", "orch").Str("sid", string(id)).Str("room", roomName).Msg("join rejected")
		_ = o.send(id, failure(EventJoinedRoom, err))
		return err
	}

	o.Registry.SetSession(id, app.Session{RoomName: room.Name, Member: *member})
	log.Info().Str("module", "orch").Str("sid", string(id)).Str("room", roomName).Str("username", member.Username).Msg("joined")

	isAdmin := false
	_ = o.send(id, JoinedRoom{
		Type:     EventJoinedRoom,
		Success:  true,
		Message:  fmt.Sprintf("Successfully joined %s.", roomName),
		RoomName: room.Name,
		Username: member.Username,
		IsAdmin:  &isAdmin,
	})
	o.broadcast(room, roomUsers(fmt.Sprintf("%s joined the room.", member.Username), room))
	return nil
}

func (o *Orchestrator) join(id domain.ConnID, roomName, username, password string) (*domain.Member, *domain.Room, error) {
	name, err := validateEntry(roomName, username, password)
	if err != nil {
		return nil, nil, err
	}
	if o.Registry.Session(id).Joined() {
		return nil, nil, domain.ErrAlreadyInRoom
	}
	room, ok := o.Rooms.Get(domain.RoomName(roomName))
	if !ok {
		return nil, nil, domain.ErrRoomNotFound
	}
	if !room.CheckPassword(password) {
		return nil, nil, domain.ErrWrongPassword
	}
	member, err := room.Add(domain.Member{ConnID: id, Username: name})
	if errors.Is(err, domain.ErrUsernameTaken) {
		return nil, nil, fmt.Errorf("%w: %s", err, name)
	}
	if err != nil {
		return nil, nil, err
	}
	return member, room, nil
}

// LeaveRoom removes the caller from its current room.
func (o *Orchestrator) LeaveRoom(id domain.ConnID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess := o.Registry.Session(id)
	if !sess.Joined() {
		log.Info().Str("module", "orch").Str("sid", string(id)).Msg("leave without room")
		_ = o.send(id, Ack{Type: EventLeftRoom, Success: false, Message: "You are not currently in a room."})
		return domain.ErrNotInRoom
	}
	if !o.leave(sess.RoomName, id, "") {
		o.leave("", id, "")
	}
	o.Registry.ClearSession(id)
	_ = o.send(id, Ack{Type: EventLeftRoom, Success: true, Message: "You have left the room."})
	return nil
}

// Disconnect drops whatever membership the connection holds and forgets it.
// The lookup falls back to a scan by connection id when the session is stale.
func (o *Orchestrator) Disconnect(id domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess := o.Registry.Session(id)
	log.Info().Str("module", "orch").Str("sid", string(id)).Str("room", string(sess.RoomName)).Msg("disconnect")
	found := false
	if sess.Joined() {
		found = o.leave(sess.RoomName, id, "")
	}
	if !found {
		o.leave("", id, "")
	}
	o.Registry.ClearSession(id)
	o.Registry.Unbind(id)
}

// leave is the single removal path for kick, leave and disconnect. An empty
// roomName scans every room. kickedBy names the admin when the member was
// kicked. It reports false, and does nothing, when the member is absent.
func (o *Orchestrator) leave(roomName domain.RoomName, id domain.ConnID, kickedBy string) bool {
	var (
		room *domain.Room
		ok   bool
	)
	if roomName != "" {
		room, ok = o.Rooms.Get(roomName)
	} else {
		room, ok = o.Rooms.FindByConn(id)
	}
	if !ok {
		return false
	}
	gone, ok := room.Remove(id)
	if !ok {
		return false
	}
	o.Registry.ClearSession(id)

	msg := fmt.Sprintf("%s left the room.", gone.Username)
	if kickedBy != "" {
		msg = fmt.Sprintf("%s was kicked by %s.", gone.Username, kickedBy)
	}
	log.Info().Str("module", "orch").Str("sid", string(id)).Str("room", string(room.Name)).Str("username", gone.Username).Str("kicked_by", kickedBy).Msg("member left")
	o.broadcast(room, roomUsers(msg, room))

	if gone.IsAdmin {
		if heir, ok := room.PromoteFirst(); ok {
			o.Registry.SetSession(heir.ConnID, app.Session{RoomName: room.Name, Member: *heir})
			adminMsg := fmt.Sprintf("Because %s left (or was kicked), %s is the new admin.", gone.Username, heir.Username)
			log.Info().Str("module", "orch").Str("room", string(room.Name)).Str("username", heir.Username).Msg("admin transferred")
			o.broadcast(room, AdminChanged{Type: EventAdminChanged, NewAdminUsername: heir.Username, Message: adminMsg})
			o.broadcast(room, roomUsers(adminMsg, room))
		}
	}

	if room.Empty() {
		o.Rooms.Delete(room.Name)
	}
	return true
}
