package coordinator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quill/internal/remote"
	"github.com/mesh-intelligence/quill/internal/store"
	"github.com/mesh-intelligence/quill/pkg/types"
)

func seedData() *types.UserData {
	return &types.UserData{
		Username: "corvid",
		Projects: map[string]*types.Project{
			"p1": {
				ProjectID: "p1",
				Name:      "Ashfall",
				Characters: []*types.Character{
					{ID: "c1", Name: "Aria"},
				},
				Worlds: []*types.World{
					{ID: "w1", Name: "The Shallows", Description: "tidal flats", Geography: "salt marsh"},
				},
				Eras: []*types.Era{
					{ID: "E1", Name: "Dawn", Order: 1},
					{ID: "E2", Name: "Dusk", Order: 2},
				},
				Timeline: []*types.TimelineEvent{
					{ID: "ev1", EraID: "E1", Order: 1, Title: "Founding"},
					{ID: "ev2", EraID: "E1", Order: 2, Title: "Collapse"},
					{ID: "ev3", EraID: "E2", Order: 1, Title: "Rebirth"},
				},
			},
		},
	}
}

// newCoordinator wires a coordinator to an httptest service and seeds the
// store directly, as a snapshot restore would.
func newCoordinator(t *testing.T, handler http.Handler) (*Coordinator, *store.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st := store.New()
	c := New(st, remote.New(srv.URL, "", zerolog.Nop()), zerolog.Nop())
	require.NoError(t, c.Restore(seedData()))
	return c, st
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestCreateInsertsCanonicalEntity(t *testing.T) {
	c, st := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		writeJSON(t, w, types.Character{ID: "c-new", Name: "Brann", Species: "selkie"})
	}))

	created, err := c.CreateCharacter(context.Background(), "p1", &types.Character{Name: "Brann", Species: "selkie"})
	require.NoError(t, err)
	assert.Equal(t, "c-new", created.ID)

	p, err := st.Project("p1")
	require.NoError(t, err)
	require.Len(t, p.Characters, 2)
	assert.Equal(t, "c-new", p.Characters[1].ID)
}

func TestFailedUpdateLeavesStoreUntouched(t *testing.T) {
	c, st := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeJSON(t, w, map[string]string{"message": "species is not recognized"})
	}))

	before, _ := st.Project("p1")

	name := "Aria the Red"
	_, err := c.UpdateCharacter(context.Background(), "p1", "c1", CharacterPatch{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "species is not recognized", remote.UserMessage(err))

	after, _ := st.Project("p1")
	assert.Same(t, before, after, "failed mutation must not touch the store")
	assert.Equal(t, "Aria", after.Characters[0].Name)
}

func TestLastWriteWinsUnderReversedCompletion(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	c, st := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var patch struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))

		if patch.Name == "A" {
			once.Do(func() { close(firstArrived) })
			<-releaseFirst
		}
		writeJSON(t, w, types.Character{ID: "c1", Name: patch.Name})
	}))

	ctx := context.Background()
	done := make(chan error, 1)
	nameA := "A"
	go func() {
		_, err := c.UpdateCharacter(ctx, "p1", "c1", CharacterPatch{Name: &nameA})
		done <- err
	}()

	// Update B is issued strictly after A, but its response lands first.
	<-firstArrived
	nameB := "B"
	_, err := c.UpdateCharacter(ctx, "p1", "c1", CharacterPatch{Name: &nameB})
	require.NoError(t, err)

	close(releaseFirst)
	require.NoError(t, <-done)

	p, _ := st.Project("p1")
	assert.Equal(t, "B", p.Characters[0].Name,
		"the later-issued update must win even though its response arrived first")
}

func TestDeleteEraCascades(t *testing.T) {
	c, st := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/projects/p1/eras/E1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteEra(context.Background(), "p1", "E1"))

	p, _ := st.Project("p1")
	require.Len(t, p.Eras, 1)
	assert.Equal(t, "E2", p.Eras[0].ID)
	assert.Equal(t, 1, p.Eras[0].Order, "surviving eras renumber densely")

	require.Len(t, p.Timeline, 1)
	assert.Equal(t, "ev3", p.Timeline[0].ID)
	for _, ev := range p.Timeline {
		assert.NotEqual(t, "E1", ev.EraID, "no event may stay orphaned on the deleted era")
	}
}

func TestDeleteEventCompactsEraOrder(t *testing.T) {
	c, st := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/projects/p1/timeline/ev1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteEvent(context.Background(), "p1", "ev1"))

	p, _ := st.Project("p1")
	inEra := p.EventsInEra("E1")
	require.Len(t, inEra, 1)
	assert.Equal(t, "ev2", inEra[0].ID)
	assert.Equal(t, 1, inEra[0].Order, "survivors renumber densely after a delete")

	other := p.EventsInEra("E2")
	require.Len(t, other, 1)
	assert.Equal(t, 1, other[0].Order)
}

func TestReorderErasReplacesCollectionFromResponse(t *testing.T) {
	c, st := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects/p1/eras/reorder", r.URL.Path)
		writeJSON(t, w, []*types.Era{
			{ID: "E2", Name: "Dusk", Order: 1},
			{ID: "E1", Name: "Dawn", Order: 2},
		})
	}))

	require.NoError(t, c.ReorderEras(context.Background(), "p1", []string{"E2", "E1"}))

	p, _ := st.Project("p1")
	require.Len(t, p.Eras, 2)
	assert.Equal(t, "E2", p.Eras[0].ID)
	assert.Equal(t, 1, p.Eras[0].Order)
	assert.Equal(t, 2, p.Eras[1].Order)
}

func TestReorderRejectsNonPermutationBeforeAnyCall(t *testing.T) {
	var calls int
	c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	err := c.ReorderEras(context.Background(), "p1", []string{"E1"})
	assert.ErrorIs(t, err, types.ErrOrderMismatch)

	err = c.ReorderEvents(context.Background(), "p1", "E1", []string{"ev1", "ev3"})
	assert.ErrorIs(t, err, types.ErrOrderMismatch)

	assert.Zero(t, calls, "contract violations must not reach the service")
}

func TestReorderEventsSwapsFullTimeline(t *testing.T) {
	c, st := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects/p1/eras/E1/events/reorder", r.URL.Path)
		writeJSON(t, w, []*types.TimelineEvent{
			{ID: "ev2", EraID: "E1", Order: 1, Title: "Collapse"},
			{ID: "ev1", EraID: "E1", Order: 2, Title: "Founding"},
			{ID: "ev3", EraID: "E2", Order: 1, Title: "Rebirth"},
		})
	}))

	require.NoError(t, c.ReorderEvents(context.Background(), "p1", "E1", []string{"ev2", "ev1"}))

	p, _ := st.Project("p1")
	inEra := p.EventsInEra("E1")
	require.Len(t, inEra, 2)
	assert.Equal(t, "ev2", inEra[0].ID)
	assert.Equal(t, "ev1", inEra[1].ID)
}

func TestUpdateWorldSendsFullMergedObject(t *testing.T) {
	c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload types.World
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		// The service never merges world payloads; the client must have
		// sent the untouched fields along with the change.
		assert.Equal(t, "The Deeps", payload.Name)
		assert.Equal(t, "tidal flats", payload.Description)
		assert.Equal(t, "salt marsh", payload.Geography)

		writeJSON(t, w, payload)
	}))

	name := "The Deeps"
	updated, err := c.UpdateWorld(context.Background(), "p1", "w1", WorldPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "The Deeps", updated.Name)
	assert.Equal(t, "tidal flats", updated.Description)
}

func TestCreateEventRejectsUnknownEra(t *testing.T) {
	var calls int
	c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := c.CreateEvent(context.Background(), "p1", &types.TimelineEvent{EraID: "ghost", Title: "x"})
	assert.ErrorIs(t, err, types.ErrUnknownEra)
	assert.Zero(t, calls)
}

func TestBusyFlagHeldForCallDuration(t *testing.T) {
	release := make(chan struct{})
	c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(t, w, types.Character{ID: "c1", Name: "Aria"})
	}))

	assert.False(t, c.Busy())

	done := make(chan struct{})
	name := "Aria"
	go func() {
		_, _ = c.UpdateCharacter(context.Background(), "p1", "c1", CharacterPatch{Name: &name})
		close(done)
	}()

	require.Eventually(t, c.Busy, time.Second, time.Millisecond, "busy while the call is pending")
	close(release)
	<-done
	assert.False(t, c.Busy())
}

func TestCommitEventsFireAfterSuccessOnly(t *testing.T) {
	var fail bool
	c, _ := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, types.Character{ID: "c1", Name: "Aria the Red"})
	}))

	var commits []Commit
	c.OnCommit(func(commit Commit) { commits = append(commits, commit) })

	name := "Aria the Red"
	_, err := c.UpdateCharacter(context.Background(), "p1", "c1", CharacterPatch{Name: &name})
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, OpUpdate, commits[0].Op)
	assert.Equal(t, "c1", commits[0].EntityID)

	fail = true
	_, err = c.UpdateCharacter(context.Background(), "p1", "c1", CharacterPatch{Name: &name})
	require.Error(t, err)
	assert.Len(t, commits, 1, "failed mutations publish nothing")
}

func TestDeleteCharacterKeepsDanglingLinks(t *testing.T) {
	c, st := newCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Seed an event that references c1 before deleting the character.
	require.NoError(t, st.Apply(store.Replace("p1", types.KindEvent,
		&types.TimelineEvent{ID: "ev1", EraID: "E1", Order: 1, Title: "Founding", LinkedCharacterIDs: []string{"c1"}})))

	require.NoError(t, c.DeleteCharacter(context.Background(), "p1", "c1"))

	p, _ := st.Project("p1")
	assert.Empty(t, p.Characters)
	// Link lists are deliberately not purged; readers tolerate the dangle.
	assert.Equal(t, []string{"c1"}, p.Timeline[0].LinkedCharacterIDs)
}
