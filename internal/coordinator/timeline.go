package coordinator

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/quill/internal/ordering"
	"github.com/mesh-intelligence/quill/internal/store"
	"github.com/mesh-intelligence/quill/pkg/types"
)

// EventPatch is a partial timeline-event update. Changing EraID moves the
// event between eras; callers wanting a clean move with renumbered origin
// and destination should use MoveEvent instead.
type EventPatch struct {
	EraID              *string  `json:"eraId,omitempty"`
	DisplayDate        *string  `json:"displayDate,omitempty"`
	Title              *string  `json:"title,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds,omitempty"`
	LinkedWritingIDs   []string `json:"linkedWritingIds,omitempty"`
}

// CreateEvent creates a timeline event in the draft's era. The era must
// exist in the project; the service assigns the ID and the Order (appended
// at the end of the era's event sequence).
func (c *Coordinator) CreateEvent(ctx context.Context, projectID string, draft *types.TimelineEvent) (*types.TimelineEvent, error) {
	project, err := c.store.Project(projectID)
	if err != nil {
		return nil, err
	}
	if _, err := project.Era(draft.EraID); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return createOp[*types.TimelineEvent](ctx, c, projectID, types.KindEvent, draft)
}

// UpdateEvent applies a partial update and stores the canonical result.
func (c *Coordinator) UpdateEvent(ctx context.Context, projectID, id string, patch EventPatch) (*types.TimelineEvent, error) {
	if patch.EraID != nil {
		project, err := c.store.Project(projectID)
		if err != nil {
			return nil, err
		}
		if _, err := project.Era(*patch.EraID); err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
	}
	return updateOp[*types.TimelineEvent](ctx, c, projectID, types.KindEvent, id, patch)
}

// DeleteEvent removes one event after the service confirms the delete. The
// delete response carries no body, so the era's surviving events are
// renumbered locally with the same compaction the service applies, and the
// timeline is swapped in as one patch.
func (c *Coordinator) DeleteEvent(ctx context.Context, projectID, id string) error {
	c.pending.Add(1)
	defer c.pending.Add(-1)

	key := entityKey{projectID: projectID, kind: types.KindEvent, id: id}
	seq := c.nextSeq(key)

	if err := c.client.Delete(ctx, projectID, types.KindEvent, id); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("event delete failed")
		return fmt.Errorf("delete %s: %w", types.KindEvent, err)
	}

	project, err := c.store.Project(projectID)
	if err != nil {
		return err
	}
	timeline, err := ordering.CompactEvents(project.Timeline, id)
	if err != nil {
		return fmt.Errorf("compact timeline: %w", err)
	}

	applied, err := c.commitIfFresh(key, seq, store.SwapCollection(projectID, types.KindEvent, timeline))
	if err != nil {
		return fmt.Errorf("apply event delete: %w", err)
	}
	if applied {
		c.publish(Commit{Op: OpDelete, ProjectID: projectID, Kind: types.KindEvent, EntityID: id})
	}
	return nil
}

// ReorderEvents submits a new event order for one era. orderedIDs must be a
// permutation of the era's current event IDs. The service returns the full
// project timeline renumbered; it replaces the local timeline wholesale.
func (c *Coordinator) ReorderEvents(ctx context.Context, projectID, eraID string, orderedIDs []string) error {
	project, err := c.store.Project(projectID)
	if err != nil {
		return err
	}
	if _, err := project.Era(eraID); err != nil {
		return err
	}
	current := make([]string, 0, len(orderedIDs))
	for _, ev := range project.EventsInEra(eraID) {
		current = append(current, ev.ID)
	}
	if err := ordering.ValidatePermutation(orderedIDs, current); err != nil {
		return fmt.Errorf("reorder events: %w", err)
	}

	return c.reorderEventsConfirmed(ctx, projectID, eraID, orderedIDs)
}

// MoveEvent moves an event into a different era at the given position
// (0-based; clamped to the destination's length). The move is three
// confirmed operations in sequence: update the event's eraId, renumber the
// origin era's remaining events, renumber the destination era. Each step is
// atomic on the service; a failure mid-sequence leaves earlier steps
// applied.
func (c *Coordinator) MoveEvent(ctx context.Context, projectID, eventID, destEraID string, position int) error {
	project, err := c.store.Project(projectID)
	if err != nil {
		return err
	}
	if _, err := project.Era(destEraID); err != nil {
		return err
	}

	var moved *types.TimelineEvent
	for _, ev := range project.Timeline {
		if ev.ID == eventID {
			moved = ev
			break
		}
	}
	if moved == nil {
		return fmt.Errorf("event %s: %w", eventID, types.ErrNotFound)
	}
	originEraID := moved.EraID
	if originEraID == destEraID {
		return fmt.Errorf("move event: destination equals origin era")
	}

	if _, err := c.UpdateEvent(ctx, projectID, eventID, EventPatch{EraID: &destEraID}); err != nil {
		return err
	}

	// Renumber the origin without the moved event.
	project, err = c.store.Project(projectID)
	if err != nil {
		return err
	}
	var originIDs []string
	for _, ev := range project.EventsInEra(originEraID) {
		originIDs = append(originIDs, ev.ID)
	}
	if len(originIDs) > 0 {
		if err := c.reorderEventsConfirmed(ctx, projectID, originEraID, originIDs); err != nil {
			return err
		}
	}

	// Renumber the destination with the moved event slotted in.
	project, err = c.store.Project(projectID)
	if err != nil {
		return err
	}
	var destIDs []string
	for _, ev := range project.EventsInEra(destEraID) {
		if ev.ID == eventID {
			continue
		}
		destIDs = append(destIDs, ev.ID)
	}
	if position < 0 {
		position = 0
	}
	if position > len(destIDs) {
		position = len(destIDs)
	}
	destIDs = append(destIDs[:position], append([]string{eventID}, destIDs[position:]...)...)

	return c.reorderEventsConfirmed(ctx, projectID, destEraID, destIDs)
}

// reorderEventsConfirmed issues the reorder call and swaps in the timeline
// the service returns. Callers have already validated the permutation.
func (c *Coordinator) reorderEventsConfirmed(ctx context.Context, projectID, eraID string, orderedIDs []string) error {
	c.pending.Add(1)
	defer c.pending.Add(-1)

	key := entityKey{projectID: projectID, kind: types.KindEvent, id: "#order:" + eraID}
	seq := c.nextSeq(key)

	timeline, err := c.client.ReorderEvents(ctx, projectID, eraID, orderedIDs)
	if err != nil {
		c.log.Warn().Err(err).Str("era", eraID).Msg("event reorder failed")
		return fmt.Errorf("reorder events: %w", err)
	}

	applied, err := c.commitIfFresh(key, seq, store.SwapCollection(projectID, types.KindEvent, timeline))
	if err != nil {
		return fmt.Errorf("apply event order: %w", err)
	}
	if applied {
		c.publish(Commit{Op: OpReorder, ProjectID: projectID, Kind: types.KindEvent, EntityID: eraID})
	}
	return nil
}
