package store

import (
	"github.com/mesh-intelligence/quill/pkg/types"
)

type patchOp int

const (
	opReset patchOp = iota
	opInsert
	opReplace
	opRemove
	opSwap
)

// collectionSwap replaces one whole collection of a project. The collection
// value is the concrete slice type for the kind ([]*types.Era etc.).
type collectionSwap struct {
	kind       types.Kind
	collection any
}

// Patch is one instruction to the store. Patches are built through the
// constructor functions below; the zero value is not usable.
type Patch struct {
	op        patchOp
	data      *types.UserData
	projectID string
	kind      types.Kind
	entity    any
	id        string
	swaps     []collectionSwap
}

// Reset replaces the entire UserData, as after a /me/data bulk load or a
// snapshot restore.
func Reset(data *types.UserData) Patch {
	return Patch{op: opReset, data: data}
}

// Insert adds one entity to a project collection. The entity must be the
// concrete pointer type for the kind, carrying server-assigned fields.
func Insert(projectID string, kind types.Kind, entity any) Patch {
	return Patch{op: opInsert, projectID: projectID, kind: kind, entity: entity}
}

// Replace swaps the entity with the same ID in a project collection.
func Replace(projectID string, kind types.Kind, entity any) Patch {
	return Patch{op: opReplace, projectID: projectID, kind: kind, entity: entity}
}

// Remove deletes one entity from a project collection by ID.
func Remove(projectID string, kind types.Kind, id string) Patch {
	return Patch{op: opRemove, projectID: projectID, kind: kind, id: id}
}

// SwapCollection replaces one whole collection of a project, as after a
// confirmed reorder. collection must be the concrete slice type for the kind.
func SwapCollection(projectID string, kind types.Kind, collection any) Patch {
	return Patch{op: opSwap, projectID: projectID, swaps: []collectionSwap{{kind: kind, collection: collection}}}
}

// EraCascade replaces both ordered collections of a project in one commit:
// the renumbered eras and the timeline with the dead era's events removed.
// Listeners observe a single change.
func EraCascade(projectID string, eras []*types.Era, timeline []*types.TimelineEvent) Patch {
	return Patch{op: opSwap, projectID: projectID, swaps: []collectionSwap{
		{kind: types.KindEra, collection: eras},
		{kind: types.KindEvent, collection: timeline},
	}}
}

// apply produces the next UserData from current, sharing every untouched
// sub-tree. current is never mutated.
func (p Patch) apply(current *types.UserData) (*types.UserData, error) {
	if p.op == opReset {
		if p.data == nil {
			return nil, types.ErrInvalidData
		}
		return p.data, nil
	}

	if current == nil {
		return nil, types.ErrProjectNotFound
	}
	project, ok := current.Projects[p.projectID]
	if !ok {
		return nil, types.ErrProjectNotFound
	}

	next := project.Clone()
	var err error
	switch p.op {
	case opInsert:
		err = insertInto(next, p.kind, p.entity)
	case opReplace:
		err = replaceIn(next, p.kind, p.entity)
	case opRemove:
		err = removeFrom(next, p.kind, p.id)
	case opSwap:
		for _, swap := range p.swaps {
			if err = swapIn(next, swap.kind, swap.collection); err != nil {
				break
			}
		}
	default:
		err = types.ErrInvalidData
	}
	if err != nil {
		return nil, err
	}

	projects := make(map[string]*types.Project, len(current.Projects))
	for id, pr := range current.Projects {
		projects[id] = pr
	}
	projects[p.projectID] = next

	return &types.UserData{Username: current.Username, Projects: projects}, nil
}

func insertInto(p *types.Project, kind types.Kind, entity any) error {
	switch kind {
	case types.KindCharacter:
		return appendEntity(&p.Characters, entity)
	case types.KindWorld:
		return appendEntity(&p.Worlds, entity)
	case types.KindWriting:
		return appendEntity(&p.Writings, entity)
	case types.KindEvent:
		return appendEntity(&p.Timeline, entity)
	case types.KindEra:
		return appendEntity(&p.Eras, entity)
	case types.KindCatalogue:
		return appendEntity(&p.Catalogue, entity)
	}
	return types.ErrUnknownKind
}

func replaceIn(p *types.Project, kind types.Kind, entity any) error {
	switch kind {
	case types.KindCharacter:
		return replaceEntity(&p.Characters, entity)
	case types.KindWorld:
		return replaceEntity(&p.Worlds, entity)
	case types.KindWriting:
		return replaceEntity(&p.Writings, entity)
	case types.KindEvent:
		return replaceEntity(&p.Timeline, entity)
	case types.KindEra:
		return replaceEntity(&p.Eras, entity)
	case types.KindCatalogue:
		return replaceEntity(&p.Catalogue, entity)
	}
	return types.ErrUnknownKind
}

func removeFrom(p *types.Project, kind types.Kind, id string) error {
	switch kind {
	case types.KindCharacter:
		return removeEntity(&p.Characters, id)
	case types.KindWorld:
		return removeEntity(&p.Worlds, id)
	case types.KindWriting:
		return removeEntity(&p.Writings, id)
	case types.KindEvent:
		return removeEntity(&p.Timeline, id)
	case types.KindEra:
		return removeEntity(&p.Eras, id)
	case types.KindCatalogue:
		return removeEntity(&p.Catalogue, id)
	}
	return types.ErrUnknownKind
}

func swapIn(p *types.Project, kind types.Kind, collection any) error {
	switch kind {
	case types.KindCharacter:
		return assignCollection(&p.Characters, collection)
	case types.KindWorld:
		return assignCollection(&p.Worlds, collection)
	case types.KindWriting:
		return assignCollection(&p.Writings, collection)
	case types.KindEvent:
		return assignCollection(&p.Timeline, collection)
	case types.KindEra:
		return assignCollection(&p.Eras, collection)
	case types.KindCatalogue:
		return assignCollection(&p.Catalogue, collection)
	}
	return types.ErrUnknownKind
}

func appendEntity[T types.Entity](target *[]T, entity any) error {
	e, ok := entity.(T)
	if !ok {
		return types.ErrInvalidData
	}
	if e.EntityID() == "" {
		return types.ErrInvalidID
	}
	for _, existing := range *target {
		if existing.EntityID() == e.EntityID() {
			return types.ErrInvalidID
		}
	}
	*target = append(*target, e)
	return nil
}

func replaceEntity[T types.Entity](target *[]T, entity any) error {
	e, ok := entity.(T)
	if !ok {
		return types.ErrInvalidData
	}
	for i, existing := range *target {
		if existing.EntityID() == e.EntityID() {
			(*target)[i] = e
			return nil
		}
	}
	return types.ErrNotFound
}

func removeEntity[T types.Entity](target *[]T, id string) error {
	for i, existing := range *target {
		if existing.EntityID() == id {
			*target = append((*target)[:i], (*target)[i+1:]...)
			return nil
		}
	}
	return types.ErrNotFound
}

func assignCollection[T types.Entity](target *[]T, collection any) error {
	c, ok := collection.([]T)
	if !ok {
		return types.ErrInvalidData
	}
	*target = c
	return nil
}
