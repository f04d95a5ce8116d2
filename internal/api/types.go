package api

import (
	"encoding/json"
	"fmt"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// --- Tag Service ---

// generateTagsResponse keeps `tags` raw so a non-array value degrades to an
// empty list instead of failing the decode.
type generateTagsResponse struct {
	Tags json.RawMessage `json:"tags"`
}

// SetTagsInput is the scan submission body.
type SetTagsInput struct {
	Tags []string `json:"tags"`
}

// ExtractKeywordsInput is the keyword extraction request body.
type ExtractKeywordsInput struct {
	Description string `json:"description"`
}

type extractKeywordsResponse struct {
	Keywords json.RawMessage `json:"keywords"`
}

// --- Hardware Service ---

// SequenceResponse is returned by the hardware trigger endpoint.
type SequenceResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Snapshot is the latest camera frame captured by the hardware service.
type Snapshot struct {
	Data        []byte
	ContentType string
}
