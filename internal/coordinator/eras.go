package coordinator

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/quill/internal/ordering"
	"github.com/mesh-intelligence/quill/internal/store"
	"github.com/mesh-intelligence/quill/pkg/types"
)

// EraPatch is a partial era update. Order is never patched directly; it only
// changes through ReorderEras or the delete cascade.
type EraPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateEra creates an era. The service assigns both the ID and the Order
// (appended at the end of the project's era sequence).
func (c *Coordinator) CreateEra(ctx context.Context, projectID string, draft *types.Era) (*types.Era, error) {
	return createOp[*types.Era](ctx, c, projectID, types.KindEra, draft)
}

// UpdateEra applies a partial update and stores the canonical result.
func (c *Coordinator) UpdateEra(ctx context.Context, projectID, id string, patch EraPatch) (*types.Era, error) {
	return updateOp[*types.Era](ctx, c, projectID, types.KindEra, id, patch)
}

// DeleteEra is a compound operation: the service removes the era and every
// event in it; the confirmed delete is mirrored locally by dropping the era,
// renumbering the survivors densely, and filtering the dead era's events out
// of the timeline. Both collections swap in a single store commit.
func (c *Coordinator) DeleteEra(ctx context.Context, projectID, id string) error {
	c.pending.Add(1)
	defer c.pending.Add(-1)

	key := entityKey{projectID: projectID, kind: types.KindEra, id: id}
	seq := c.nextSeq(key)

	if err := c.client.Delete(ctx, projectID, types.KindEra, id); err != nil {
		c.log.Warn().Err(err).Str("era", id).Msg("era delete failed")
		return fmt.Errorf("delete era: %w", err)
	}

	project, err := c.store.Project(projectID)
	if err != nil {
		return err
	}
	plan, err := ordering.PlanEraDelete(project, id)
	if err != nil {
		return fmt.Errorf("cascade era delete: %w", err)
	}

	applied, err := c.commitIfFresh(key, seq, store.EraCascade(projectID, plan.Eras, plan.Timeline))
	if err != nil {
		return fmt.Errorf("apply era cascade: %w", err)
	}
	if applied {
		c.publish(Commit{Op: OpDelete, ProjectID: projectID, Kind: types.KindEra, EntityID: id})
	}
	return nil
}

// ReorderEras submits a new era order for the project. orderedIDs must be a
// permutation of the project's current era IDs; violations fail before any
// remote call. The service's renumbered collection replaces the local one
// wholesale, even though it is expected to match the local computation.
func (c *Coordinator) ReorderEras(ctx context.Context, projectID string, orderedIDs []string) error {
	project, err := c.store.Project(projectID)
	if err != nil {
		return err
	}
	current, err := project.MemberIDs(types.KindEra)
	if err != nil {
		return err
	}
	if err := ordering.ValidatePermutation(orderedIDs, current); err != nil {
		return fmt.Errorf("reorder eras: %w", err)
	}

	c.pending.Add(1)
	defer c.pending.Add(-1)

	key := entityKey{projectID: projectID, kind: types.KindEra, id: "#order"}
	seq := c.nextSeq(key)

	eras, err := c.client.ReorderEras(ctx, projectID, orderedIDs)
	if err != nil {
		c.log.Warn().Err(err).Str("project", projectID).Msg("era reorder failed")
		return fmt.Errorf("reorder eras: %w", err)
	}

	applied, err := c.commitIfFresh(key, seq, store.SwapCollection(projectID, types.KindEra, eras))
	if err != nil {
		return fmt.Errorf("apply era order: %w", err)
	}
	if applied {
		c.publish(Commit{Op: OpReorder, ProjectID: projectID, Kind: types.KindEra})
	}
	return nil
}
