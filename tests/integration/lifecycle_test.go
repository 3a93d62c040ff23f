// End-to-end lifecycle tests: coordinator and snapshot against the stub
// entity service over real HTTP.
package integration

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quill/internal/coordinator"
	"github.com/mesh-intelligence/quill/internal/remote"
	"github.com/mesh-intelligence/quill/internal/snapshot"
	"github.com/mesh-intelligence/quill/internal/store"
	"github.com/mesh-intelligence/quill/internal/stub"
	"github.com/mesh-intelligence/quill/pkg/types"
)

const testToken = "integration-token"

func seedGraph() *types.UserData {
	return &types.UserData{
		Username: "integration",
		Projects: map[string]*types.Project{
			"p1": {ProjectID: "p1", Name: "Tidewater"},
		},
	}
}

// env wires a full client stack against an in-process stub service.
type env struct {
	server *httptest.Server
	store  *store.Store
	coord  *coordinator.Coordinator
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := zerolog.Nop()
	srv := httptest.NewServer(stub.New(seedGraph(), testToken, log).Handler())
	t.Cleanup(srv.Close)

	st := store.New()
	coord := coordinator.New(st, remote.New(srv.URL, testToken, log), log)
	return &env{server: srv, store: st, coord: coord}
}

func TestTimelineLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	data, err := e.coord.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, data.Projects, "p1")

	// Two eras land at positions 1 and 2.
	first, err := e.coord.CreateEra(ctx, "p1", &types.Era{Name: "Founding"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)

	second, err := e.coord.CreateEra(ctx, "p1", &types.Era{Name: "Collapse"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)

	// Events are numbered per era.
	ev1, err := e.coord.CreateEvent(ctx, "p1", &types.TimelineEvent{EraID: first.ID, Title: "First landfall"})
	require.NoError(t, err)
	ev2, err := e.coord.CreateEvent(ctx, "p1", &types.TimelineEvent{EraID: first.ID, Title: "The charter"})
	require.NoError(t, err)
	ev3, err := e.coord.CreateEvent(ctx, "p1", &types.TimelineEvent{EraID: second.ID, Title: "The flood"})
	require.NoError(t, err)
	assert.Equal(t, 1, ev1.Order)
	assert.Equal(t, 2, ev2.Order)
	assert.Equal(t, 1, ev3.Order)

	// Reorder the first era's events and check dense renumbering.
	require.NoError(t, e.coord.ReorderEvents(ctx, "p1", first.ID, []string{ev2.ID, ev1.ID}))
	project, err := e.store.Project("p1")
	require.NoError(t, err)
	got := project.EventsInEra(first.ID)
	require.Len(t, got, 2)
	assert.Equal(t, ev2.ID, got[0].ID)
	assert.Equal(t, 1, got[0].Order)
	assert.Equal(t, ev1.ID, got[1].ID)
	assert.Equal(t, 2, got[1].Order)

	// Reorder eras project-wide.
	require.NoError(t, e.coord.ReorderEras(ctx, "p1", []string{second.ID, first.ID}))
	project, err = e.store.Project("p1")
	require.NoError(t, err)
	eras := project.ErasInOrder()
	require.Len(t, eras, 2)
	assert.Equal(t, second.ID, eras[0].ID)
	assert.Equal(t, 1, eras[0].Order)

	// Deleting an era removes its events and renumbers the survivors.
	require.NoError(t, e.coord.DeleteEra(ctx, "p1", first.ID))
	project, err = e.store.Project("p1")
	require.NoError(t, err)
	require.Len(t, project.Eras, 1)
	assert.Equal(t, second.ID, project.Eras[0].ID)
	assert.Equal(t, 1, project.Eras[0].Order)
	require.Len(t, project.Timeline, 1)
	assert.Equal(t, ev3.ID, project.Timeline[0].ID)

	// The stub and the mirror agree after the cascade.
	server, err := e.coord.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, server.Projects["p1"].Eras, 1)
	assert.Len(t, server.Projects["p1"].Timeline, 1)
}

func TestMoveEventAcrossEras(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.coord.Load(ctx)
	require.NoError(t, err)

	origin, err := e.coord.CreateEra(ctx, "p1", &types.Era{Name: "Founding"})
	require.NoError(t, err)
	dest, err := e.coord.CreateEra(ctx, "p1", &types.Era{Name: "Collapse"})
	require.NoError(t, err)

	ev1, err := e.coord.CreateEvent(ctx, "p1", &types.TimelineEvent{EraID: origin.ID, Title: "First landfall"})
	require.NoError(t, err)
	ev2, err := e.coord.CreateEvent(ctx, "p1", &types.TimelineEvent{EraID: origin.ID, Title: "The charter"})
	require.NoError(t, err)
	ev3, err := e.coord.CreateEvent(ctx, "p1", &types.TimelineEvent{EraID: dest.ID, Title: "The flood"})
	require.NoError(t, err)

	// Move the origin's second event to the front of the destination era.
	require.NoError(t, e.coord.MoveEvent(ctx, "p1", ev2.ID, dest.ID, 0))

	project, err := e.store.Project("p1")
	require.NoError(t, err)

	// The origin closes the gap.
	originEvents := project.EventsInEra(origin.ID)
	require.Len(t, originEvents, 1)
	assert.Equal(t, ev1.ID, originEvents[0].ID)
	assert.Equal(t, 1, originEvents[0].Order)

	// The destination honors the requested position and renumbers densely.
	destEvents := project.EventsInEra(dest.ID)
	require.Len(t, destEvents, 2)
	assert.Equal(t, ev2.ID, destEvents[0].ID)
	assert.Equal(t, dest.ID, destEvents[0].EraID)
	assert.Equal(t, 1, destEvents[0].Order)
	assert.Equal(t, ev3.ID, destEvents[1].ID)
	assert.Equal(t, 2, destEvents[1].Order)

	// The stub agrees with the mirror after the compound move.
	server, err := e.coord.Load(ctx)
	require.NoError(t, err)
	serverDest := server.Projects["p1"].EventsInEra(dest.ID)
	require.Len(t, serverDest, 2)
	assert.Equal(t, ev2.ID, serverDest[0].ID)
}

func TestEntityLifecycleAcrossKinds(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.coord.Load(ctx)
	require.NoError(t, err)

	world, err := e.coord.CreateWorld(ctx, "p1", &types.World{
		Name:        "Brinemoor",
		Description: "salt marsh archipelago",
		Geography:   "tidal flats",
	})
	require.NoError(t, err)

	ch, err := e.coord.CreateCharacter(ctx, "p1", &types.Character{
		Name:          "Aria Voss",
		Species:       "human",
		LinkedWorldID: world.ID,
	})
	require.NoError(t, err)

	// Partial character update keeps unmentioned fields.
	name := "Aria Voss the Elder"
	updated, err := e.coord.UpdateCharacter(ctx, "p1", ch.ID, coordinator.CharacterPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "human", updated.Species)
	assert.Equal(t, world.ID, updated.LinkedWorldID)

	// World updates go out as the full object; the untouched description
	// must survive a single-field patch.
	geography := "basalt cliffs"
	patched, err := e.coord.UpdateWorld(ctx, "p1", world.ID, coordinator.WorldPatch{Geography: &geography})
	require.NoError(t, err)
	assert.Equal(t, geography, patched.Geography)
	assert.Equal(t, "salt marsh archipelago", patched.Description)

	writing, err := e.coord.CreateWriting(ctx, "p1", &types.WritingEntry{Title: "Chapter One", Content: "The tide came in."})
	require.NoError(t, err)
	assert.False(t, writing.CreatedAt.IsZero())

	item, err := e.coord.CreateItem(ctx, "p1", &types.CatalogueItem{Name: "Sunforged Blade", Category: "artifact"})
	require.NoError(t, err)

	// Deleting the world leaves the character's link dangling.
	require.NoError(t, e.coord.DeleteWorld(ctx, "p1", world.ID))
	project, err := e.store.Project("p1")
	require.NoError(t, err)
	require.Len(t, project.Characters, 1)
	assert.Equal(t, world.ID, project.Characters[0].LinkedWorldID)

	require.NoError(t, e.coord.DeleteWriting(ctx, "p1", writing.ID))
	require.NoError(t, e.coord.DeleteItem(ctx, "p1", item.ID))
	require.NoError(t, e.coord.DeleteCharacter(ctx, "p1", ch.ID))

	project, err = e.store.Project("p1")
	require.NoError(t, err)
	assert.Empty(t, project.Characters)
	assert.Empty(t, project.Worlds)
	assert.Empty(t, project.Writings)
	assert.Empty(t, project.Catalogue)
}

func TestRejectedMutationLeavesMirrorUntouched(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.coord.Load(ctx)
	require.NoError(t, err)

	era, err := e.coord.CreateEra(ctx, "p1", &types.Era{Name: "Founding"})
	require.NoError(t, err)

	// An event targeting an unknown era is rejected locally, before any
	// HTTP call, and the mirror stays empty.
	_, err = e.coord.CreateEvent(ctx, "p1", &types.TimelineEvent{EraID: "no-such-era", Title: "orphan"})
	require.ErrorIs(t, err, types.ErrUnknownEra)

	// A non-permutation reorder is rejected the same way.
	err = e.coord.ReorderEras(ctx, "p1", []string{era.ID, era.ID})
	require.ErrorIs(t, err, types.ErrOrderMismatch)

	project, err := e.store.Project("p1")
	require.NoError(t, err)
	assert.Empty(t, project.Timeline)
	require.Len(t, project.Eras, 1)
	assert.Equal(t, 1, project.Eras[0].Order)
}

func TestSnapshotRoundTripThroughStoreListener(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	snap, err := snapshot.Open(t.TempDir())
	require.NoError(t, err)
	defer snap.Close()

	e.store.OnChange(func(data *types.UserData) {
		_ = snap.Save(data.Username, data)
	})

	_, err = e.coord.Load(ctx)
	require.NoError(t, err)
	era, err := e.coord.CreateEra(ctx, "p1", &types.Era{Name: "Founding"})
	require.NoError(t, err)

	// A fresh stack seeded from the snapshot sees the committed state
	// without any network call.
	restored, err := snap.Load("integration")
	require.NoError(t, err)

	st2 := store.New()
	coord2 := coordinator.New(st2, remote.New("http://127.0.0.1:1", testToken, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, coord2.Restore(restored))

	project, err := st2.Project("p1")
	require.NoError(t, err)
	require.Len(t, project.Eras, 1)
	assert.Equal(t, era.ID, project.Eras[0].ID)
}

func TestBearerTokenRequired(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	unauthorized := coordinator.New(store.New(), remote.New(e.server.URL, "wrong-token", zerolog.Nop()), zerolog.Nop())
	_, err := unauthorized.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, "missing or invalid token", remote.UserMessage(err))
}
