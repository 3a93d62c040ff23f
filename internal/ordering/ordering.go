// Package ordering computes dense, 1-based order assignments for the two
// ordered scopes of a project (eras, and events within one era) and the
// cascade plan for era deletion. It is pure computation: no I/O, no store
// access. Callers always supply the complete membership of a scope; the
// package recomputes every order value from scratch rather than diffing,
// which keeps order values from drifting under repeated partial reorders.
// See docs/ARCHITECTURE.md § Ordering Engine.
package ordering

import (
	"sort"

	"github.com/mesh-intelligence/quill/pkg/types"
)

// ValidatePermutation checks that orderedIDs is exactly a permutation of
// currentIDs: same length, same members, no duplicates, no foreign IDs.
// Returns types.ErrOrderMismatch on any violation.
func ValidatePermutation(orderedIDs, currentIDs []string) error {
	if len(orderedIDs) != len(currentIDs) {
		return types.ErrOrderMismatch
	}
	current := make(map[string]bool, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = true
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !current[id] || seen[id] {
			return types.ErrOrderMismatch
		}
		seen[id] = true
	}
	return nil
}

// RenumberEras returns a new era slice with Order assigned as index+1 along
// orderedIDs. The input eras are not mutated; eras whose order changes are
// replaced by fresh copies. orderedIDs must be a permutation of the supplied
// eras' IDs.
func RenumberEras(eras []*types.Era, orderedIDs []string) ([]*types.Era, error) {
	byID := make(map[string]*types.Era, len(eras))
	for _, e := range eras {
		byID[e.ID] = e
	}
	if err := ValidatePermutation(orderedIDs, collectEraIDs(eras)); err != nil {
		return nil, err
	}

	out := make([]*types.Era, len(orderedIDs))
	for i, id := range orderedIDs {
		era := byID[id]
		if era.Order != i+1 {
			cp := *era
			cp.Order = i + 1
			era = &cp
		}
		out[i] = era
	}
	return out, nil
}

// RenumberEvents returns a new event slice with Order assigned as index+1
// along orderedIDs. All supplied events must belong to a single era; the
// caller scopes the slice before calling. Events are copied on change, as in
// RenumberEras.
func RenumberEvents(events []*types.TimelineEvent, orderedIDs []string) ([]*types.TimelineEvent, error) {
	byID := make(map[string]*types.TimelineEvent, len(events))
	ids := make([]string, len(events))
	for i, ev := range events {
		byID[ev.ID] = ev
		ids[i] = ev.ID
	}
	if err := ValidatePermutation(orderedIDs, ids); err != nil {
		return nil, err
	}

	out := make([]*types.TimelineEvent, len(orderedIDs))
	for i, id := range orderedIDs {
		ev := byID[id]
		if ev.Order != i+1 {
			cp := *ev
			cp.Order = i + 1
			ev = &cp
		}
		out[i] = ev
	}
	return out, nil
}

// CascadePlan is the result of planning an era deletion: the surviving eras
// renumbered densely, the timeline with the dead era's events removed, and
// the IDs of the removed events. Surviving events keep their order values;
// only eras are renumbered.
type CascadePlan struct {
	Eras            []*types.Era
	Timeline        []*types.TimelineEvent
	RemovedEventIDs []string
}

// PlanEraDelete computes the cascade for deleting eraID from the project:
// the era leaves the era collection, survivors are renumbered 1..n in their
// current relative order, and every event whose EraID matches is removed.
// Returns types.ErrUnknownEra if the project has no such era.
func PlanEraDelete(p *types.Project, eraID string) (CascadePlan, error) {
	if _, err := p.Era(eraID); err != nil {
		return CascadePlan{}, err
	}

	var survivors []*types.Era
	for _, e := range p.ErasInOrder() {
		if e.ID != eraID {
			survivors = append(survivors, e)
		}
	}
	ordered := make([]string, len(survivors))
	for i, e := range survivors {
		ordered[i] = e.ID
	}
	eras, err := RenumberEras(survivors, ordered)
	if err != nil {
		return CascadePlan{}, err
	}

	var timeline []*types.TimelineEvent
	var removed []string
	for _, ev := range p.Timeline {
		if ev.EraID == eraID {
			removed = append(removed, ev.ID)
			continue
		}
		timeline = append(timeline, ev)
	}

	return CascadePlan{Eras: eras, Timeline: timeline, RemovedEventIDs: removed}, nil
}

// CompactEvents returns a new timeline with removedID dropped and the
// survivors of its era renumbered densely along their current order values.
// Events in other eras keep their pointers and order values. Returns
// types.ErrNotFound if the timeline has no such event.
func CompactEvents(timeline []*types.TimelineEvent, removedID string) ([]*types.TimelineEvent, error) {
	var eraID string
	found := false
	for _, ev := range timeline {
		if ev.ID == removedID {
			eraID = ev.EraID
			found = true
			break
		}
	}
	if !found {
		return nil, types.ErrNotFound
	}

	var survivors []*types.TimelineEvent
	for _, ev := range timeline {
		if ev.EraID == eraID && ev.ID != removedID {
			survivors = append(survivors, ev)
		}
	}
	sort.Slice(survivors, func(i, j int) bool { return survivors[i].Order < survivors[j].Order })

	renumbered := make(map[string]*types.TimelineEvent, len(survivors))
	for i, ev := range survivors {
		if ev.Order != i+1 {
			cp := *ev
			cp.Order = i + 1
			ev = &cp
		}
		renumbered[ev.ID] = ev
	}

	out := make([]*types.TimelineEvent, 0, len(timeline)-1)
	for _, ev := range timeline {
		if ev.ID == removedID {
			continue
		}
		if updated, ok := renumbered[ev.ID]; ok {
			ev = updated
		}
		out = append(out, ev)
	}
	return out, nil
}

func collectEraIDs(eras []*types.Era) []string {
	ids := make([]string, len(eras))
	for i, e := range eras {
		ids[i] = e.ID
	}
	return ids
}
