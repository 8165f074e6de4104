package dto

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinQueryLength = 1
	MaxQueryLength = 2000
)

// promptInjectionPatterns guards the grounding prompt against common
// instruction-override phrasings. Matched case-insensitively against
// the trimmed query text.
var promptInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+|the\s+)?(previous|above)\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+|the\s+)?(previous|above)`),
	regexp.MustCompile(`(?i)forget\s+(all\s+|the\s+)?(previous|above)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an)`),
	regexp.MustCompile(`(?i)new\s+instructions:`),
	regexp.MustCompile(`(?i)system\s*:\s*`),
}

type QueryRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	QueryText string    `json:"query_text" validate:"required"`
	InputMode string    `json:"input_mode" validate:"omitempty,oneof=text voice"`
}

// Sanitize trims the query text and rejects empty, oversized or
// injection-bearing input. Call after struct-level validation.
func (r *QueryRequest) Sanitize() error {
	r.QueryText = strings.TrimSpace(r.QueryText)

	if len(r.QueryText) < MinQueryLength {
		return fmt.Errorf("query cannot be empty")
	}
	if len(r.QueryText) > MaxQueryLength {
		return fmt.Errorf("query exceeds maximum length of %d characters", MaxQueryLength)
	}
	for _, pattern := range promptInjectionPatterns {
		if pattern.MatchString(r.QueryText) {
			return fmt.Errorf("query contains disallowed content")
		}
	}
	return nil
}

type SourceResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type QueryResponse struct {
	QueryId      uuid.UUID        `json:"query_id"`
	QueryText    string           `json:"query_text"`
	ResponseText string           `json:"response_text"`
	InputMode    string           `json:"input_mode"`
	Sources      []SourceResponse `json:"sources"`
	CreatedAt    time.Time        `json:"created_at"`
}

type ConversationHistoryResponse struct {
	SessionId uuid.UUID       `json:"session_id"`
	Title     string          `json:"title"`
	Queries   []QueryResponse `json:"queries"`
}
