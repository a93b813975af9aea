package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole accepts "model" as an alias of assistant, which is how Gemini
// names the assistant side of a conversation.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleAssistant), "model":
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("unsupported chat role %q", raw)
	}
}

type ChatTurn struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

type DirectorSession []ChatTurn

// Append returns a new session with turns added at the end; the receiver is
// never modified.
func (s DirectorSession) Append(turns ...ChatTurn) DirectorSession {
	next := make(DirectorSession, 0, len(s)+len(turns))
	next = append(next, s...)
	return append(next, turns...)
}

func (s DirectorSession) Clone() DirectorSession {
	if s == nil {
		return DirectorSession{}
	}

	return slices.Clone(s)
}

func (s DirectorSession) Last() (ChatTurn, bool) {
	if len(s) == 0 {
		return ChatTurn{}, false
	}

	return s[len(s)-1], true
}
