// Package coordinator wraps every entity mutation as a confirmed operation
// against the entity service. It is the only caller of the remote client and
// the only writer into the store: a patch is applied exclusively from the
// canonical entity state a successful response carries, so a failed call
// leaves the store byte-for-byte untouched. Each mutation walks
// Idle -> Pending -> Committed|Failed and holds the process-wide busy flag
// while Pending.
// See docs/ARCHITECTURE.md § Mutation Coordinator.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/quill/internal/remote"
	"github.com/mesh-intelligence/quill/internal/store"
	"github.com/mesh-intelligence/quill/pkg/types"
)

// Op names carried on commit events.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReorder = "reorder"
)

// Commit describes one successfully applied mutation. Listeners use it for
// user-facing notifications; it is published after the store patch commits,
// never before.
type Commit struct {
	Op        string
	ProjectID string
	Kind      types.Kind
	EntityID  string
}

// entityKey identifies the logical resource a mutation targets, for stale
// response suppression. Reorders use a synthetic ID for their scope.
type entityKey struct {
	projectID string
	kind      types.Kind
	id        string
}

// Coordinator serializes confirmed mutations between the remote client and
// the store.
type Coordinator struct {
	store  *store.Store
	client *remote.Client
	log    zerolog.Logger

	// pending counts in-flight remote calls. The UI reads Busy() to disable
	// mutation controls; the coordinator does not hard-block overlap.
	pending atomic.Int32

	// seqMu guards the per-entity sequence bookkeeping below. Responses are
	// applied in issue order per entity: a response whose issue sequence is
	// older than the last applied one for the same entity is discarded.
	seqMu   sync.Mutex
	issued  map[entityKey]uint64
	applied map[entityKey]uint64

	listenerMu sync.Mutex
	listeners  []func(Commit)
}

// New builds a coordinator writing into st and calling through client.
func New(st *store.Store, client *remote.Client, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:   st,
		client:  client,
		log:     log,
		issued:  make(map[entityKey]uint64),
		applied: make(map[entityKey]uint64),
	}
}

// Busy reports whether any mutation is currently pending. Callers are
// expected to hold off issuing further mutations while true; two racing
// mutations on the same entity are resolved by issue-order suppression, but
// mutations on different entities land in arrival order.
func (c *Coordinator) Busy() bool {
	return c.pending.Load() > 0
}

// OnCommit registers fn to run after every committed mutation. Registration
// is expected during startup, before mutations begin.
func (c *Coordinator) OnCommit(fn func(Commit)) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Load performs the bulk read: fetch the user's entire graph from /me/data
// and reset the store with it.
func (c *Coordinator) Load(ctx context.Context) (*types.UserData, error) {
	c.pending.Add(1)
	defer c.pending.Add(-1)

	data, err := c.client.FetchUserData(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user data: %w", err)
	}
	if err := c.store.Apply(store.Reset(data)); err != nil {
		return nil, fmt.Errorf("reset store: %w", err)
	}
	return data, nil
}

// Restore seeds the store from a local snapshot without touching the
// network. The snapshot is a cache only; the next Load overwrites it.
func (c *Coordinator) Restore(data *types.UserData) error {
	return c.store.Apply(store.Reset(data))
}

func (c *Coordinator) publish(commit Commit) {
	c.listenerMu.Lock()
	listeners := append([]func(Commit){}, c.listeners...)
	c.listenerMu.Unlock()
	for _, fn := range listeners {
		fn(commit)
	}
}

// nextSeq stamps a new mutation against key with its issue order.
func (c *Coordinator) nextSeq(key entityKey) uint64 {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	c.issued[key]++
	return c.issued[key]
}

// commitIfFresh applies the patch unless a later-issued mutation for the
// same entity has already been applied. Returns true when the patch landed.
func (c *Coordinator) commitIfFresh(key entityKey, seq uint64, patch store.Patch) (bool, error) {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()

	if seq < c.applied[key] {
		c.log.Debug().
			Str("project", key.projectID).
			Str("kind", string(key.kind)).
			Str("id", key.id).
			Uint64("seq", seq).
			Msg("discarding stale mutation response")
		return false, nil
	}
	if err := c.store.Apply(patch); err != nil {
		return false, err
	}
	c.applied[key] = seq
	return true, nil
}

// createOp runs a create mutation: POST the payload, insert the canonical
// entity the service returns. Creates mint fresh IDs, so there is no stale
// response to suppress.
func createOp[T types.Entity](ctx context.Context, c *Coordinator, projectID string, kind types.Kind, payload any) (T, error) {
	var zero T
	c.pending.Add(1)
	defer c.pending.Add(-1)

	created, err := remote.Create[T](ctx, c.client, projectID, kind, payload)
	if err != nil {
		c.log.Warn().Err(err).Str("kind", string(kind)).Msg("create failed")
		return zero, fmt.Errorf("create %s: %w", kind, err)
	}
	if err := c.store.Apply(store.Insert(projectID, kind, created)); err != nil {
		return zero, fmt.Errorf("insert %s: %w", kind, err)
	}
	c.publish(Commit{Op: OpCreate, ProjectID: projectID, Kind: kind, EntityID: created.EntityID()})
	return created, nil
}

// updateOp runs an update mutation: PUT the payload, replace the stored
// entity with the canonical response unless a later update already landed.
func updateOp[T types.Entity](ctx context.Context, c *Coordinator, projectID string, kind types.Kind, id string, payload any) (T, error) {
	var zero T
	c.pending.Add(1)
	defer c.pending.Add(-1)

	key := entityKey{projectID: projectID, kind: kind, id: id}
	seq := c.nextSeq(key)

	updated, err := remote.Update[T](ctx, c.client, projectID, kind, id, payload)
	if err != nil {
		c.log.Warn().Err(err).Str("kind", string(kind)).Str("id", id).Msg("update failed")
		return zero, fmt.Errorf("update %s: %w", kind, err)
	}
	applied, err := c.commitIfFresh(key, seq, store.Replace(projectID, kind, updated))
	if err != nil {
		return zero, fmt.Errorf("replace %s: %w", kind, err)
	}
	if applied {
		c.publish(Commit{Op: OpUpdate, ProjectID: projectID, Kind: kind, EntityID: id})
	}
	return updated, nil
}

// deleteOp runs a plain (non-cascading) delete mutation.
func (c *Coordinator) deleteOp(ctx context.Context, projectID string, kind types.Kind, id string) error {
	c.pending.Add(1)
	defer c.pending.Add(-1)

	key := entityKey{projectID: projectID, kind: kind, id: id}
	seq := c.nextSeq(key)

	if err := c.client.Delete(ctx, projectID, kind, id); err != nil {
		c.log.Warn().Err(err).Str("kind", string(kind)).Str("id", id).Msg("delete failed")
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	applied, err := c.commitIfFresh(key, seq, store.Remove(projectID, kind, id))
	if err != nil {
		return fmt.Errorf("remove %s: %w", kind, err)
	}
	if applied {
		c.publish(Commit{Op: OpDelete, ProjectID: projectID, Kind: kind, EntityID: id})
	}
	return nil
}
