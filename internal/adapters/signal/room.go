package signal

import (
	"encoding/json"

	"github.com/dkeye/Relay/internal/app/orch"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

type entryPayload struct {
	RoomName string `json:"roomName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ctl *SignalWSController) handleCreate(sid domain.ConnID, data []byte) {
	var p entryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad createRoom payload")
		_ = ctl.Orch.Send(sid, orch.Ack{Type: orch.EventRoomCreation, Message: "Bad payload."})
		return
	}
	_ = ctl.Orch.CreateRoom(sid, p.RoomName, p.Username, p.Password)
}

func (ctl *SignalWSController) handleJoin(sid domain.ConnID, data []byte) {
	var p entryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad joinRoom payload")
		_ = ctl.Orch.Send(sid, orch.Ack{Type: orch.EventJoinedRoom, Message: "Bad payload."})
		return
	}
	_ = ctl.Orch.JoinRoom(sid, p.RoomName, p.Username, p.Password)
}

// handleMessage ignores any sender fields in the payload.
func (ctl *SignalWSController) handleMessage(sid domain.ConnID, data []byte) {
	var p orch.MessageRequest
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad sendMessage payload")
		return
	}
	_ = ctl.Orch.SendMessage(sid, p)
}

func (ctl *SignalWSController) handleKick(sid domain.ConnID, data []byte) {
	var p struct {
		RoomName       string `json:"roomName"`
		TargetUsername string `json:"targetUsername"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad kickUser payload")
		_ = ctl.Orch.Send(sid, orch.Ack{Type: orch.EventKickResult, Message: "Bad payload."})
		return
	}
	_ = ctl.Orch.KickUser(sid, p.RoomName, p.TargetUsername)
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(sid domain.ConnID) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	_ = ctl.Orch.LeaveRoom(sid)
}
