// Package domain contains room and member entities and their validation rules.
// No transport or locking here.
package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

const MaxUsernameLen = 36

// ConnID identifies one live connection. It is assigned by the transport.
type ConnID string

// Member represents a connection's participation in a room.
type Member struct {
	ConnID   ConnID
	Username string
	IsAdmin  bool
}

// MemberDTO is the wire view of a member (no connection id).
type MemberDTO struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// NormalizeUsername trims the name and checks it is usable.
func NormalizeUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return "", ErrInvalidUsername
	}
	if len(name) > MaxUsernameLen {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidUsername, MaxUsernameLen)
	}
	return name, nil
}

// SameUsername reports whether two usernames collide within a room.
func SameUsername(a, b string) bool {
	return cases.Fold().String(a) == cases.Fold().String(b)
}

func (m *Member) DTO() MemberDTO {
	return MemberDTO{Username: m.Username, IsAdmin: m.IsAdmin}
}
