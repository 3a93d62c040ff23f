package types

// World is a setting or location graph node. The entity service does not
// merge partial world payloads: updates must send the complete object, so the
// mutation coordinator merges requested changes into the stored original
// before issuing the call.
type World struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Geography          string   `json:"geography,omitempty"`
	Culture            string   `json:"culture,omitempty"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds,omitempty"`
	LinkedEventIDs     []string `json:"linkedEventIds,omitempty"`
	LinkedWritingIDs   []string `json:"linkedWritingIds,omitempty"`
	LinkedItemIDs      []string `json:"linkedItemIds,omitempty"`
}

func (w *World) EntityID() string { return w.ID }
