package orch

import (
	"encoding/json"
	"unicode"
	"unicode/utf8"

	"github.com/dkeye/Relay/internal/domain"
)

// Outbound event types.
const (
	EventID             = "id"
	EventRoomCreation   = "roomCreation"
	EventJoinedRoom     = "joinedRoom"
	EventRoomUsers      = "roomUsers"
	EventReceiveMessage = "receiveMessage"
	EventKickResult     = "kickResult"
	EventKicked         = "kicked"
	EventAdminChanged   = "adminChanged"
	EventLeftRoom       = "leftRoom"
	EventPong           = "pong"
)

// Ack answers a create/join/kick/leave request.
type Ack struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type JoinedRoom struct {
	Type     string          `json:"type"`
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	RoomName domain.RoomName `json:"roomName,omitempty"`
	Username string          `json:"username,omitempty"`
	IsAdmin  *bool           `json:"isAdmin,omitempty"`
}

type RoomUsers struct {
	Type    string             `json:"type"`
	Message string             `json:"message"`
	Users   []domain.MemberDTO `json:"users"`
}

type AdminChanged struct {
	Type             string `json:"type"`
	NewAdminUsername string `json:"newAdminUsername"`
	Message          string `json:"message"`
}

type Kicked struct {
	Type     string          `json:"type"`
	RoomName domain.RoomName `json:"roomName"`
	Reason   string          `json:"reason"`
}

// ChatMessage is the envelope fanned out for every accepted message.
// Sender fields always come from the session.
type ChatMessage struct {
	Type           string          `json:"type"`
	SenderID       domain.ConnID   `json:"senderId"`
	SenderUsername string          `json:"senderUsername"`
	Receiver       json.RawMessage `json:"receiver"`
	Message        string          `json:"message"`
	Translate      json.RawMessage `json:"translate"`
	Timestamp      string          `json:"timestamp"`
	IsAdmin        bool            `json:"isAdmin"`
}

// MessageRequest is the client payload of sendMessage. Receiver and Translate
// are passed through untouched.
type MessageRequest struct {
	RoomName  string          `json:"roomName"`
	Receiver  json.RawMessage `json:"receiver"`
	Message   string          `json:"message"`
	Translate json.RawMessage `json:"translate"`
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func roomUsers(message string, room *domain.Room) RoomUsers {
	return RoomUsers{Type: EventRoomUsers, Message: message, Users: room.Snapshot()}
}

func failure(eventType string, err error) Ack {
	return Ack{Type: eventType, Success: false, Message: sentence(err.Error())}
}

// sentence capitalizes s and ends it with a period.
func sentence(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[n:]
	if last, _ := utf8.DecodeLastRuneInString(s); last != '.' && last != '!' {
		s += "."
	}
	return s
}
