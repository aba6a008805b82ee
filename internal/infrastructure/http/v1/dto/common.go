// Package dto provides request/response objects for the HTTP API.
// Domain entities carry their own JSON tags and serve as responses;
// this package holds the request side and list envelopes.
package dto

import (
	"time"

	"comexa/internal/core/id"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates an ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse mirrors the error middleware payload, for clients.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Helpers ---

// ParseID parses an ID field, returning ok=false on garbage.
func ParseID(s string) (id.ID, bool) {
	parsed, err := id.Parse(s)
	if err != nil {
		return id.Nil(), false
	}
	return parsed, true
}

// ParseOptionalID parses an optional ID field.
func ParseOptionalID(s *string) (*id.ID, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	parsed, err := id.Parse(*s)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

// ParseDate parses an optional RFC 3339 date query parameter.
func ParseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}
