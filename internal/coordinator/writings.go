package coordinator

import (
	"context"

	"github.com/mesh-intelligence/quill/pkg/types"
)

// WritingPatch is a partial writing-entry update. The service refreshes
// UpdatedAt on every update; timestamps are never sent by the client.
type WritingPatch struct {
	Title              *string  `json:"title,omitempty"`
	Content            *string  `json:"content,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds,omitempty"`
	LinkedWorldIDs     []string `json:"linkedWorldIds,omitempty"`
	LinkedEventIDs     []string `json:"linkedEventIds,omitempty"`
}

// CreateWriting creates a writing entry; the service sets CreatedAt and
// UpdatedAt on the returned canonical entity.
func (c *Coordinator) CreateWriting(ctx context.Context, projectID string, draft *types.WritingEntry) (*types.WritingEntry, error) {
	return createOp[*types.WritingEntry](ctx, c, projectID, types.KindWriting, draft)
}

// UpdateWriting applies a partial update and stores the canonical result.
func (c *Coordinator) UpdateWriting(ctx context.Context, projectID, id string, patch WritingPatch) (*types.WritingEntry, error) {
	return updateOp[*types.WritingEntry](ctx, c, projectID, types.KindWriting, id, patch)
}

// DeleteWriting removes a writing entry.
func (c *Coordinator) DeleteWriting(ctx context.Context, projectID, id string) error {
	return c.deleteOp(ctx, projectID, types.KindWriting, id)
}
