package domain

import "time"

// ============================================================
// Session history
// ============================================================

// TurnKind tells who produced a history turn.
type TurnKind string

const (
	TurnUser   TurnKind = "USER"
	TurnSystem TurnKind = "SYSTEM"
	TurnError  TurnKind = "ERROR"
)

// ConnectivityErrorMessage is the fixed text of the ERROR turn recorded when
// the command service cannot be reached.
const ConnectivityErrorMessage = "Failed to connect to CAPS server."

// HistoryItem is one turn of the session log. It is never mutated once appended.
type HistoryItem struct {
	ID        string           `json:"id"`
	Seq       int              `json:"seq"`
	Kind      TurnKind         `json:"kind"`
	Text      string           `json:"text,omitempty"`
	Response  *CommandResponse `json:"response,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
