package api

import "encoding/json"

// Envelope is the wire shape every server response uses.
// Data is decoded lazily so each call site can pick its own target type.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

// PageMeta is the pagination block a paginated response carries alongside
// its items. Values are echoed from the server unchanged.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// HasMore reports whether pages remain after the current one.
func (m PageMeta) HasMore() bool {
	return m.CurrentPage < m.TotalPages
}

// page is the raw paginated data block inside an envelope.
type page struct {
	Items json.RawMessage `json:"items"`
	PageMeta
}
