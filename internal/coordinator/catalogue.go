package coordinator

import (
	"context"

	"github.com/mesh-intelligence/quill/pkg/types"
)

// CatalogueItemPatch is a partial catalogue-item update.
type CatalogueItemPatch struct {
	Name               *string  `json:"name,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Description        *string  `json:"description,omitempty"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds,omitempty"`
	LinkedWorldIDs     []string `json:"linkedWorldIds,omitempty"`
	LinkedWritingIDs   []string `json:"linkedWritingIds,omitempty"`
}

// CreateItem creates a catalogue item in the given project.
func (c *Coordinator) CreateItem(ctx context.Context, projectID string, draft *types.CatalogueItem) (*types.CatalogueItem, error) {
	return createOp[*types.CatalogueItem](ctx, c, projectID, types.KindCatalogue, draft)
}

// UpdateItem applies a partial update and stores the canonical result.
func (c *Coordinator) UpdateItem(ctx context.Context, projectID, id string, patch CatalogueItemPatch) (*types.CatalogueItem, error) {
	return updateOp[*types.CatalogueItem](ctx, c, projectID, types.KindCatalogue, id, patch)
}

// DeleteItem removes a catalogue item.
func (c *Coordinator) DeleteItem(ctx context.Context, projectID, id string) error {
	return c.deleteOp(ctx, projectID, types.KindCatalogue, id)
}
