package orch

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator runs the membership protocol. Every exported operation holds
// mu until its store mutations and notifications are queued, so operations
// never interleave.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *core.RoomStore
	Policy   app.Policy
	Now      func() time.Time

	mu sync.Mutex
}

// PublishResult reports delivery stats of one broadcast.
type PublishResult struct {
	SentTo  int
	Dropped []domain.Member
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// RoomList lists the current rooms.
func (o *Orchestrator) RoomList() []core.RoomInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.List()
}

// RoomInfo describes one room.
func (o *Orchestrator) RoomInfo(name domain.RoomName) (core.RoomInfo, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	room, ok := o.Rooms.Get(name)
	if !ok {
		return core.RoomInfo{}, false
	}
	return core.RoomInfo{Name: room.Name, MemberCount: room.Len(), Capacity: room.Capacity()}, true
}

// Send delivers v to a single connection outside of any room operation.
func (o *Orchestrator) Send(id domain.ConnID, v any) error {
	return o.send(id, v)
}

func (o *Orchestrator) send(id domain.ConnID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal event")
		return err
	}
	sig, ok := o.Registry.Signal(id)
	if !ok {
		log.Warn().Str("module", "orch").Str("sid", string(id)).Msg("send: no signal for connection")
		return core.ErrConnClosed
	}
	return sig.TrySend(data)
}

// broadcast queues v for every member of room, in join order.
func (o *Orchestrator) broadcast(room *domain.Room, v any) PublishResult {
	res := PublishResult{}
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal broadcast")
		return res
	}
	for _, m := range room.Members() {
		sig, ok := o.Registry.Signal(m.ConnID)
		if !ok {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		if err := sig.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			if errors.Is(err, core.ErrBackpressure) {
				o.onBackPressure(room.Name, m)
			}
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "orch").Str("room", string(room.Name)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (o *Orchestrator) onBackPressure(room domain.RoomName, m domain.Member) {
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(room, m) {
	case app.Disconnect:
		log.Warn().Str("module", "orch").Str("room", string(room)).Str("sid", string(m.ConnID)).Msg("slow consumer, disconnecting")
		o.Registry.Cancel(m.ConnID)
	case app.DropFrame, app.NoAction:
	}
}
