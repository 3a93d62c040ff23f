package coordinator

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/quill/pkg/types"
)

// WorldPatch is a partial world update. Unlike the other kinds, the entity
// service does not merge partial world payloads, so the coordinator merges
// the patch into the stored original and sends the complete object.
type WorldPatch struct {
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Geography          *string  `json:"geography,omitempty"`
	Culture            *string  `json:"culture,omitempty"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds,omitempty"`
	LinkedEventIDs     []string `json:"linkedEventIds,omitempty"`
	LinkedWritingIDs   []string `json:"linkedWritingIds,omitempty"`
	LinkedItemIDs      []string `json:"linkedItemIds,omitempty"`
}

// merge applies the patch onto a copy of the current world.
func (p WorldPatch) merge(current *types.World) *types.World {
	next := *current
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Geography != nil {
		next.Geography = *p.Geography
	}
	if p.Culture != nil {
		next.Culture = *p.Culture
	}
	if p.LinkedCharacterIDs != nil {
		next.LinkedCharacterIDs = p.LinkedCharacterIDs
	}
	if p.LinkedEventIDs != nil {
		next.LinkedEventIDs = p.LinkedEventIDs
	}
	if p.LinkedWritingIDs != nil {
		next.LinkedWritingIDs = p.LinkedWritingIDs
	}
	if p.LinkedItemIDs != nil {
		next.LinkedItemIDs = p.LinkedItemIDs
	}
	return &next
}

// CreateWorld creates a world in the given project.
func (c *Coordinator) CreateWorld(ctx context.Context, projectID string, draft *types.World) (*types.World, error) {
	return createOp[*types.World](ctx, c, projectID, types.KindWorld, draft)
}

// UpdateWorld merges the patch into the stored world and sends the full
// object. Returns types.ErrNotFound if the world is not in the store.
func (c *Coordinator) UpdateWorld(ctx context.Context, projectID, id string, patch WorldPatch) (*types.World, error) {
	project, err := c.store.Project(projectID)
	if err != nil {
		return nil, err
	}
	var current *types.World
	for _, w := range project.Worlds {
		if w.ID == id {
			current = w
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("world %s: %w", id, types.ErrNotFound)
	}

	return updateOp[*types.World](ctx, c, projectID, types.KindWorld, id, patch.merge(current))
}

// DeleteWorld removes a world. Characters whose LinkedWorldID points at it
// keep the dangling reference.
func (c *Coordinator) DeleteWorld(ctx context.Context, projectID, id string) error {
	return c.deleteOp(ctx, projectID, types.KindWorld, id)
}
