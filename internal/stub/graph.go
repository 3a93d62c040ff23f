package stub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/quill/internal/ordering"
	"github.com/mesh-intelligence/quill/pkg/types"
)

// graph is the stub's mutable server-side state: one user's projects,
// guarded by a single mutex. Unlike the client store it mutates in place;
// it stands in for the real service's database.
type graph struct {
	mu   sync.Mutex
	data *types.UserData
}

// newID generates a UUID v7 entity ID, falling back to v4 if v7 generation
// fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// userData returns a deep copy of the graph, taken under the lock, so the
// caller can serialize it while concurrent mutations proceed.
func (g *graph) userData() (*types.UserData, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	encoded, err := json.Marshal(g.data)
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	var cp types.UserData
	if err := json.Unmarshal(encoded, &cp); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &cp, nil
}

func (g *graph) project(id string) (*types.Project, error) {
	p, ok := g.data.Projects[id]
	if !ok {
		return nil, types.ErrProjectNotFound
	}
	return p, nil
}

// create decodes body as a new entity of the given kind, assigns the
// server-side fields (ID, order, timestamps), and appends it.
func (g *graph) create(projectID string, kind types.Kind, body []byte) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.project(projectID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case types.KindCharacter:
		var c types.Character
		if err := json.Unmarshal(body, &c); err != nil {
			return nil, types.ErrInvalidData
		}
		c.ID = newID()
		for i := range c.Traits {
			if c.Traits[i].ID == "" {
				c.Traits[i].ID = newID()
			}
		}
		p.Characters = append(p.Characters, &c)
		return &c, nil

	case types.KindWorld:
		var w types.World
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, types.ErrInvalidData
		}
		w.ID = newID()
		p.Worlds = append(p.Worlds, &w)
		return &w, nil

	case types.KindWriting:
		var w types.WritingEntry
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, types.ErrInvalidData
		}
		w.ID = newID()
		now := time.Now().UTC()
		w.CreatedAt = now
		w.UpdatedAt = now
		p.Writings = append(p.Writings, &w)
		return &w, nil

	case types.KindEvent:
		var ev types.TimelineEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return nil, types.ErrInvalidData
		}
		if _, err := p.Era(ev.EraID); err != nil {
			return nil, err
		}
		ev.ID = newID()
		ev.Order = len(p.EventsInEra(ev.EraID)) + 1
		p.Timeline = append(p.Timeline, &ev)
		return &ev, nil

	case types.KindEra:
		var e types.Era
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, types.ErrInvalidData
		}
		e.ID = newID()
		e.Order = len(p.Eras) + 1
		p.Eras = append(p.Eras, &e)
		return &e, nil

	case types.KindCatalogue:
		var ci types.CatalogueItem
		if err := json.Unmarshal(body, &ci); err != nil {
			return nil, types.ErrInvalidData
		}
		ci.ID = newID()
		p.Catalogue = append(p.Catalogue, &ci)
		return &ci, nil
	}
	return nil, types.ErrUnknownKind
}

// update applies body to the entity with the given ID. Worlds are replaced
// wholesale from the payload; every other kind merges the partial payload
// into the stored entity, matching the real service's behavior.
func (g *graph) update(projectID string, kind types.Kind, id string, body []byte) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.project(projectID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case types.KindCharacter:
		c, err := find(p.Characters, id)
		if err != nil {
			return nil, err
		}
		merged, err := mergePartial(c, body)
		if err != nil {
			return nil, err
		}
		merged.ID = id
		replace(p.Characters, merged)
		return merged, nil

	case types.KindWorld:
		if _, err := find(p.Worlds, id); err != nil {
			return nil, err
		}
		// No merge for worlds: the payload is taken as the full object.
		var w types.World
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, types.ErrInvalidData
		}
		w.ID = id
		replace(p.Worlds, &w)
		return &w, nil

	case types.KindWriting:
		w, err := find(p.Writings, id)
		if err != nil {
			return nil, err
		}
		merged, err := mergePartial(w, body)
		if err != nil {
			return nil, err
		}
		merged.ID = id
		merged.CreatedAt = w.CreatedAt
		merged.UpdatedAt = time.Now().UTC()
		replace(p.Writings, merged)
		return merged, nil

	case types.KindEvent:
		ev, err := find(p.Timeline, id)
		if err != nil {
			return nil, err
		}
		merged, err := mergePartial(ev, body)
		if err != nil {
			return nil, err
		}
		merged.ID = id
		if _, err := p.Era(merged.EraID); err != nil {
			return nil, err
		}
		replace(p.Timeline, merged)
		return merged, nil

	case types.KindEra:
		e, err := find(p.Eras, id)
		if err != nil {
			return nil, err
		}
		merged, err := mergePartial(e, body)
		if err != nil {
			return nil, err
		}
		merged.ID = id
		merged.Order = e.Order
		replace(p.Eras, merged)
		return merged, nil

	case types.KindCatalogue:
		ci, err := find(p.Catalogue, id)
		if err != nil {
			return nil, err
		}
		merged, err := mergePartial(ci, body)
		if err != nil {
			return nil, err
		}
		merged.ID = id
		replace(p.Catalogue, merged)
		return merged, nil
	}
	return nil, types.ErrUnknownKind
}

// delete removes the entity. Deleting an era cascades: survivors renumber
// densely and the era's events leave the timeline. Deleting an event
// renumbers its era's remaining events.
func (g *graph) delete(projectID string, kind types.Kind, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.project(projectID)
	if err != nil {
		return err
	}

	if kind == types.KindEra {
		plan, err := ordering.PlanEraDelete(p, id)
		if err != nil {
			return err
		}
		p.Eras = plan.Eras
		p.Timeline = plan.Timeline
		return nil
	}

	switch kind {
	case types.KindCharacter:
		p.Characters, err = remove(p.Characters, id)
	case types.KindWorld:
		p.Worlds, err = remove(p.Worlds, id)
	case types.KindWriting:
		p.Writings, err = remove(p.Writings, id)
	case types.KindEvent:
		// Survivors of the event's era renumber densely.
		p.Timeline, err = ordering.CompactEvents(p.Timeline, id)
	case types.KindCatalogue:
		p.Catalogue, err = remove(p.Catalogue, id)
	default:
		err = types.ErrUnknownKind
	}
	return err
}

// reorderEras renumbers the project's eras along orderedIDs and returns the
// complete era collection.
func (g *graph) reorderEras(projectID string, orderedIDs []string) ([]*types.Era, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.project(projectID)
	if err != nil {
		return nil, err
	}
	eras, err := ordering.RenumberEras(p.Eras, orderedIDs)
	if err != nil {
		return nil, err
	}
	p.Eras = eras
	return eras, nil
}

// reorderEvents renumbers one era's events along orderedIDs and returns the
// full project timeline.
func (g *graph) reorderEvents(projectID, eraID string, orderedIDs []string) ([]*types.TimelineEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.project(projectID)
	if err != nil {
		return nil, err
	}
	if _, err := p.Era(eraID); err != nil {
		return nil, err
	}

	scoped := p.EventsInEra(eraID)
	renumbered, err := ordering.RenumberEvents(scoped, orderedIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*types.TimelineEvent, len(renumbered))
	for _, ev := range renumbered {
		byID[ev.ID] = ev
	}
	for i, ev := range p.Timeline {
		if updated, ok := byID[ev.ID]; ok {
			p.Timeline[i] = updated
		}
	}
	return p.Timeline, nil
}

// find returns the entity with the given ID, or types.ErrNotFound.
func find[T types.Entity](entities []T, id string) (T, error) {
	var zero T
	for _, e := range entities {
		if e.EntityID() == id {
			return e, nil
		}
	}
	return zero, types.ErrNotFound
}

// replace swaps the slice member whose ID matches the given entity.
func replace[T types.Entity](entities []T, e T) {
	for i, existing := range entities {
		if existing.EntityID() == e.EntityID() {
			entities[i] = e
			return
		}
	}
}

// remove filters the entity with the given ID out of the slice.
func remove[T types.Entity](entities []T, id string) ([]T, error) {
	for i, e := range entities {
		if e.EntityID() == id {
			return append(entities[:i], entities[i+1:]...), nil
		}
	}
	return entities, types.ErrNotFound
}

// mergePartial unmarshals body on top of the JSON form of current, so absent
// fields keep their stored values.
func mergePartial[T any](current *T, body []byte) (*T, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encode current entity: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, fmt.Errorf("decode current entity: %w", err)
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, types.ErrInvalidData
	}
	for k, v := range patch {
		fields[k] = v
	}
	mergedJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode merged entity: %w", err)
	}
	out := new(T)
	if err := json.Unmarshal(mergedJSON, out); err != nil {
		return nil, types.ErrInvalidData
	}
	return out, nil
}
