package types

import "time"

// WritingEntry is a piece of prose attached to a project. CreatedAt is set by
// the service on creation; UpdatedAt is refreshed on every update.
type WritingEntry struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Content            string    `json:"content,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	LinkedCharacterIDs []string  `json:"linkedCharacterIds,omitempty"`
	LinkedWorldIDs     []string  `json:"linkedWorldIds,omitempty"`
	LinkedEventIDs     []string  `json:"linkedEventIds,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (w *WritingEntry) EntityID() string { return w.ID }
