package types

// Trait is one attribute of a character. Traits form a user-reorderable
// sequence; position is the list index, there is no independent order field.
type Trait struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	IsCustom   bool   `json:"isCustom"`
	IsTextarea bool   `json:"isTextarea"`
}

// Character is a narrative figure in a project. LinkedWorldID is the only
// single-valued reference in the graph; it is empty when the character is
// not tied to a world.
type Character struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Species          string   `json:"species,omitempty"`
	LinkedWorldID    string   `json:"linkedWorldId,omitempty"`
	LinkedEventIDs   []string `json:"linkedEventIds,omitempty"`
	LinkedWritingIDs []string `json:"linkedWritingIds,omitempty"`
	Traits           []Trait  `json:"traits,omitempty"`
}

func (c *Character) EntityID() string { return c.ID }
