// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Activity event types.
const (
    EventUserRegistered = "user.registered"
    EventFolderCreated  = "folder.created"
    EventSetCreated     = "set.created"
)

// ActivityEvent is published after a successful create.  It carries enough
// context for the activity log without another database round trip.
// FolderID and SetID are zero when they do not apply.
type ActivityEvent struct {
    Type       string `json:"type"`
    UserID     uint64 `json:"user_id"`
    Username   string `json:"username,omitempty"`
    FolderID   uint64 `json:"folder_id,omitempty"`
    SetID      uint64 `json:"set_id,omitempty"`
    Name       string `json:"name,omitempty"`
    OccurredAt string `json:"occurred_at"`
}

// NewActivityEvent stamps an event with the current UTC time.
func NewActivityEvent(typ string, userID uint64) ActivityEvent {
    return ActivityEvent{Type: typ, UserID: userID, OccurredAt: time.Now().UTC().Format(time.RFC3339)}
}
