package dto

import "github.com/google/uuid"

// PublishQueryProcessedMessage is the payload sent over the in-process
// bus after a query turn has been persisted.
type PublishQueryProcessedMessage struct {
	QueryId     uuid.UUID `json:"query_id"`
	SessionId   uuid.UUID `json:"session_id"`
	UserId      uuid.UUID `json:"user_id"`
	Topic       string    `json:"topic"`
	InputMode   string    `json:"input_mode"`
	SourceCount int       `json:"source_count"`
}
