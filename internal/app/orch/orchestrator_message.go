package orch

import (
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// SendMessage fans a chat message out to the caller's room. Requests that do
// not match the caller's session are dropped without telling the client.
func (o *Orchestrator) SendMessage(id domain.ConnID, req MessageRequest) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess := o.Registry.Session(id)
	roomName := domain.RoomName(req.RoomName)
	room, ok := o.Rooms.Get(roomName)
	if !sess.Joined() || sess.RoomName != roomName || !ok {
		log.Error().Str("module", "orch").Str("sid", string(id)).Str("room", req.RoomName).Msg("message dropped: sender not in room")
		return domain.ErrNotInRoom
	}
	if _, ok := room.ByConn(id); !ok {
		log.Error().Str("module", "orch").Str("sid", string(id)).Str("room", req.RoomName).Msg("message dropped: stale session")
		return domain.ErrNotInRoom
	}

	msg := ChatMessage{
		Type:           EventReceiveMessage,
		SenderID:       id,
		SenderUsername: sess.Member.Username,
		Receiver:       req.Receiver,
		Message:        req.Message,
		Translate:      req.Translate,
		Timestamp:      o.now().UTC().Format(timestampLayout),
		IsAdmin:        sess.Member.IsAdmin,
	}
	res := o.broadcast(room, msg)
	log.Debug().Str("module", "orch").Str("room", req.RoomName).Str("username", msg.SenderUsername).Int("sent_to", res.SentTo).Msg("message relayed")
	return nil
}
