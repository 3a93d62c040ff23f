package types

// CatalogueItem is an object, artifact, creature, or other catalogued thing
// in a project's encyclopedia.
type CatalogueItem struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Category           string   `json:"category,omitempty"`
	Description        string   `json:"description,omitempty"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds,omitempty"`
	LinkedWorldIDs     []string `json:"linkedWorldIds,omitempty"`
	LinkedWritingIDs   []string `json:"linkedWritingIds,omitempty"`
}

func (ci *CatalogueItem) EntityID() string { return ci.ID }
