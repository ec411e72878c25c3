package orch

import (
	"fmt"
	"strings"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// KickUser lets the room admin evict another member. The target is told first,
// then removed. A target that cannot be reached is still removed and the
// admin gets ErrTargetUnreachable.
func (o *Orchestrator) KickUser(id domain.ConnID, roomName, targetUsername string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, admin, victim, err := o.kickTarget(id, domain.RoomName(roomName), targetUsername)
	if err != nil {
		log.Info().Err(err).Str("module", "orch").Str("sid", string(id)).Str("room", roomName).Str("target", targetUsername).Msg("kick rejected")
		_ = o.send(id, failure(EventKickResult, err))
		return err
	}

	log.Info().Str("module", "orch").Str("room", roomName).Str("admin", admin.Username).Str("target", victim.Username).Msg("kicking member")
	notifyErr := o.send(victim.ConnID, Kicked{
		Type:     EventKicked,
		RoomName: room.Name,
		Reason:   fmt.Sprintf("You were kicked from the room by the admin (%s).", admin.Username),
	})
	o.leave(room.Name, victim.ConnID, admin.Username)

	if notifyErr != nil {
		log.Warn().Err(notifyErr).Str("module", "orch").Str("room", roomName).Str("target", victim.Username).Msg("kick notice not delivered")
		_ = o.send(id, Ack{
			Type:    EventKickResult,
			Success: false,
			Message: fmt.Sprintf("Could not directly notify %s, but they have been removed from the room.", victim.Username),
		})
		return fmt.Errorf("%w: %s", domain.ErrTargetUnreachable, victim.Username)
	}
	_ = o.send(id, Ack{Type: EventKickResult, Success: true, Message: fmt.Sprintf("Successfully kicked %s.", victim.Username)})
	return nil
}

func (o *Orchestrator) kickTarget(id domain.ConnID, roomName domain.RoomName, targetUsername string) (*domain.Room, domain.Member, domain.Member, error) {
	var none domain.Member
	sess := o.Registry.Session(id)
	if !sess.Joined() || sess.RoomName != roomName {
		return nil, none, none, domain.ErrNotInRoom
	}
	room, ok := o.Rooms.Get(roomName)
	if !ok {
		return nil, none, none, domain.ErrNotInRoom
	}
	admin, ok := room.ByConn(id)
	if !ok {
		return nil, none, none, domain.ErrNotInRoom
	}
	if !admin.IsAdmin {
		return nil, none, none, domain.ErrNotAdmin
	}
	target := strings.TrimSpace(targetUsername)
	if target == "" {
		return nil, none, none, domain.ErrMissingTarget
	}
	victim, ok := room.ByUsername(target)
	if !ok {
		return nil, none, none, fmt.Errorf("%w: %s", domain.ErrTargetNotFound, target)
	}
	if victim.ConnID == id {
		return nil, none, none, domain.ErrCannotKickSelf
	}
	return room, *admin, *victim, nil
}
