package types

// TimelineEvent is a single point on a project's timeline. DisplayDate is a
// free-text narrative label ("Third Age, year 112"), not a parseable date.
// Order is dense and 1-based within the event's era, not globally.
type TimelineEvent struct {
	ID                 string   `json:"id"`
	EraID              string   `json:"eraId"`
	DisplayDate        string   `json:"displayDate"`
	Order              int      `json:"order"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds,omitempty"`
	LinkedWritingIDs   []string `json:"linkedWritingIds,omitempty"`
}

func (ev *TimelineEvent) EntityID() string { return ev.ID }
