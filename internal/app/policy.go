package app

import "github.com/dkeye/Relay/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	Disconnect
)

// Policy decides what happens to a member whose send buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomName, member domain.Member) BackpressureAction
}

// SimplePolicy drops the frame; delivery is best effort.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.RoomName, domain.Member) BackpressureAction {
	return DropFrame
}

// StrictPolicy disconnects slow consumers.
type StrictPolicy struct{}

func (StrictPolicy) OnBackPressure(domain.RoomName, domain.Member) BackpressureAction {
	return Disconnect
}
