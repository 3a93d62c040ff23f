package coordinator

import (
	"context"

	"github.com/mesh-intelligence/quill/pkg/types"
)

// CharacterPatch is a partial character update. Nil fields are omitted from
// the request; the service merges the rest into the stored entity.
type CharacterPatch struct {
	Name             *string       `json:"name,omitempty"`
	Species          *string       `json:"species,omitempty"`
	LinkedWorldID    *string       `json:"linkedWorldId,omitempty"`
	LinkedEventIDs   []string      `json:"linkedEventIds,omitempty"`
	LinkedWritingIDs []string      `json:"linkedWritingIds,omitempty"`
	Traits           []types.Trait `json:"traits,omitempty"`
}

// CreateCharacter creates a character in the given project. The draft's ID
// is ignored; the service assigns one.
func (c *Coordinator) CreateCharacter(ctx context.Context, projectID string, draft *types.Character) (*types.Character, error) {
	return createOp[*types.Character](ctx, c, projectID, types.KindCharacter, draft)
}

// UpdateCharacter applies a partial update and stores the canonical result.
func (c *Coordinator) UpdateCharacter(ctx context.Context, projectID, id string, patch CharacterPatch) (*types.Character, error) {
	return updateOp[*types.Character](ctx, c, projectID, types.KindCharacter, id, patch)
}

// DeleteCharacter removes a character. Link lists on other entities that
// reference the character are left as they are; readers tolerate dangling
// IDs (see docs/ARCHITECTURE.md § Dangling Links).
func (c *Coordinator) DeleteCharacter(ctx context.Context, projectID, id string) error {
	return c.deleteOp(ctx, projectID, types.KindCharacter, id)
}
