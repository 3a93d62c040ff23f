package types

// Era is a user-defined chronological grouping of timeline events. Eras
// partition a project's timeline: every event belongs to exactly one era via
// its EraID. Order is a dense, 1-based position among the project's eras,
// maintained by the ordering engine and confirmed by the entity service.
type Era struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

func (e *Era) EntityID() string { return e.ID }
