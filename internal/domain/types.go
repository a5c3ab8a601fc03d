package domain

import (
	"encoding/json"
	"time"
)

// Upload is the record of one stored image.
type Upload struct {
	FileID     string
	SessionID  string
	StorageKey string
	Filename   string
	UploadedAt time.Time
}

// UploadResult is the response body of POST /upload. Ingredients maps each
// detected class name to its occurrence count.
type UploadResult struct {
	FileID      string         `json:"file_id"`
	Ingredients map[string]int `json:"ingredients"`
}

// Subsection is either an ingredient list (Items set) or a list of steps.
type Subsection struct {
	Heading string   `json:"heading"`
	Items   []string `json:"items"`
	Steps   []string `json:"steps"`
}

// MarshalJSON writes "items" for an ingredient list and "steps" otherwise.
// The written list is always an array, never null or absent.
func (s Subsection) MarshalJSON() ([]byte, error) {
	if s.Items != nil {
		return json.Marshal(struct {
			Heading string   `json:"heading"`
			Items   []string `json:"items"`
		}{s.Heading, s.Items})
	}
	steps := s.Steps
	if steps == nil {
		steps = []string{}
	}
	return json.Marshal(struct {
		Heading string   `json:"heading"`
		Steps   []string `json:"steps"`
	}{s.Heading, steps})
}

// Recipe is the response body of POST /recipe. Subsections is always
// [Ingredients, Instructions].
type Recipe struct {
	Title       string       `json:"title"`
	Subsections []Subsection `json:"subsections"`
}

// ChatReply is the response body of POST /chatbot.
type ChatReply struct {
	Title      string   `json:"title"`
	Suggestion string   `json:"suggestion"`
	Details    []string `json:"details"`
}
