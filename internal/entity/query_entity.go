package entity

import (
	"time"

	"github.com/google/uuid"
)

// SourceRef is the (title, url) projection of a retrieved source persisted
// with a turn for provenance.
type SourceRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Query is one immutable query/response turn within a session.
type Query struct {
	Id           uuid.UUID
	SessionId    uuid.UUID
	QueryText    string
	ResponseText string
	InputMode    string
	Sources      []SourceRef
	CreatedAt    time.Time
}
