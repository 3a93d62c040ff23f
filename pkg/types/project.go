package types

import "sort"

// Project is an isolated graph of the six entity collections. Entities never
// reference across project boundaries; every foreign ID on an entity resolves
// (or dangles, see docs/ARCHITECTURE.md § Dangling Links) within the same
// project.
//
// Timeline and Eras are ordered collections: each member carries a dense,
// 1-based Order value scoped to its siblings (per era for events, per project
// for eras). The other four collections have no intrinsic order.
type Project struct {
	ProjectID  string           `json:"projectId"`
	Name       string           `json:"name"`
	Characters []*Character     `json:"characters"`
	Worlds     []*World         `json:"worlds"`
	Writings   []*WritingEntry  `json:"writings"`
	Timeline   []*TimelineEvent `json:"timeline"`
	Eras       []*Era           `json:"eras"`
	Catalogue  []*CatalogueItem `json:"catalogue"`
}

// Clone returns a shallow copy of the project with fresh collection slices.
// The entity pointers themselves are shared; callers replacing an entity must
// swap the pointer, never mutate through it.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Characters = append([]*Character(nil), p.Characters...)
	cp.Worlds = append([]*World(nil), p.Worlds...)
	cp.Writings = append([]*WritingEntry(nil), p.Writings...)
	cp.Timeline = append([]*TimelineEvent(nil), p.Timeline...)
	cp.Eras = append([]*Era(nil), p.Eras...)
	cp.Catalogue = append([]*CatalogueItem(nil), p.Catalogue...)
	return &cp
}

// Era returns the era with the given ID, or ErrUnknownEra.
func (p *Project) Era(id string) (*Era, error) {
	for _, e := range p.Eras {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrUnknownEra
}

// EventsInEra returns the events belonging to the given era, in Order.
// The returned slice is freshly allocated.
func (p *Project) EventsInEra(eraID string) []*TimelineEvent {
	var events []*TimelineEvent
	for _, ev := range p.Timeline {
		if ev.EraID == eraID {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Order < events[j].Order })
	return events
}

// ErasInOrder returns the project's eras sorted by Order.
// The returned slice is freshly allocated.
func (p *Project) ErasInOrder() []*Era {
	eras := append([]*Era(nil), p.Eras...)
	sort.Slice(eras, func(i, j int) bool { return eras[i].Order < eras[j].Order })
	return eras
}

// MemberIDs returns the IDs of the given kind's collection, in slice order.
func (p *Project) MemberIDs(kind Kind) ([]string, error) {
	switch kind {
	case KindCharacter:
		return collectIDs(p.Characters), nil
	case KindWorld:
		return collectIDs(p.Worlds), nil
	case KindWriting:
		return collectIDs(p.Writings), nil
	case KindEvent:
		return collectIDs(p.Timeline), nil
	case KindEra:
		return collectIDs(p.Eras), nil
	case KindCatalogue:
		return collectIDs(p.Catalogue), nil
	}
	return nil, ErrUnknownKind
}

func collectIDs[T Entity](entities []T) []string {
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.EntityID()
	}
	return ids
}
