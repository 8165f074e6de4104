package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Query is one query/response turn. Turns are immutable once created; there
// is no soft delete and no update path.
type Query struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	QueryText    string         `gorm:"type:text;not null"`
	ResponseText string         `gorm:"type:text;not null"`
	InputMode    string         `gorm:"type:varchar(10);not null;default:text"` // 'text' or 'voice'
	Sources      datatypes.JSON `gorm:"type:jsonb"`                             // (title, url) provenance projection
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (Query) TableName() string {
	return "queries"
}
