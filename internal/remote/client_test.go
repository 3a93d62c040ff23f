package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quill/pkg/types"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "tok-123", zerolog.Nop())
}

func TestFetchUserDataDecodesGraph(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/me/data", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(types.UserData{
			Username: "corvid",
			Projects: map[string]*types.Project{
				"p1": {ProjectID: "p1", Name: "Ashfall"},
			},
		})
	}))

	data, err := c.FetchUserData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "corvid", data.Username)
	require.Contains(t, data.Projects, "p1")
	assert.Equal(t, "Ashfall", data.Projects["p1"].Name)
}

func TestFetchUserDataServesFromCacheUntilMutation(t *testing.T) {
	var reads int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			reads++
			_ = json.NewEncoder(w).Encode(types.UserData{Username: "corvid"})
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	ctx := context.Background()
	_, err := c.FetchUserData(ctx)
	require.NoError(t, err)
	_, err = c.FetchUserData(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reads, "second read should hit the cache")

	require.NoError(t, c.Delete(ctx, "p1", types.KindCharacter, "c1"))

	_, err = c.FetchUserData(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, reads, "mutation must flush the cached graph")
}

func TestCreateDecodesCanonicalEntity(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/p1/characters", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Aria", payload["name"])

		_ = json.NewEncoder(w).Encode(types.Character{ID: "c-srv-1", Name: "Aria"})
	}))

	got, err := Create[*types.Character](context.Background(), c, "p1", types.KindCharacter,
		map[string]any{"name": "Aria"})
	require.NoError(t, err)
	assert.Equal(t, "c-srv-1", got.ID)
}

func TestReorderErasSendsOrderedIDs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/eras/reorder", r.URL.Path)

		var req reorderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"E2", "E1"}, req.OrderedIDs)

		_ = json.NewEncoder(w).Encode([]*types.Era{
			{ID: "E2", Order: 1},
			{ID: "E1", Order: 2},
		})
	}))

	eras, err := c.ReorderEras(context.Background(), "p1", []string{"E2", "E1"})
	require.NoError(t, err)
	require.Len(t, eras, 2)
	assert.Equal(t, 1, eras[0].Order)
}

func TestStructuredErrorMessageSurfaces(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "name must not be empty"})
	}))

	err := c.Delete(context.Background(), "p1", types.KindCharacter, "c1")
	require.Error(t, err)

	var remoteErr *Error
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "name must not be empty", remoteErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, remoteErr.StatusCode)
}

func TestUnparsableErrorBodyFallsBack(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream exploded</html>"))
	}))

	err := c.Delete(context.Background(), "p1", types.KindWorld, "w1")
	require.Error(t, err)

	var remoteErr *Error
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, genericMessage, remoteErr.Message)
}
