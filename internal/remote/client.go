// Package remote is the HTTP client for the entity service. It is the only
// package that talks to the network; the mutation coordinator owns the single
// instance and translates its responses into store patches. Every call takes
// a context, decodes the service's canonical JSON shape, and surfaces
// structured error bodies as *Error.
// See docs/ARCHITECTURE.md § Remote Service Client.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/quill/pkg/types"
)

const (
	defaultTimeout = 10 * time.Second

	// userDataTTL bounds how long a /me/data response may be served from
	// memory. Every successful mutation flushes the cache, so the TTL only
	// matters for repeated bulk reads with no writes in between.
	userDataTTL      = 30 * time.Second
	userDataCacheKey = "me/data"
)

// Client talks to one entity service on behalf of one user.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	cache   *cache.Cache
	log     zerolog.Logger
}

// New builds a client for the given service base URL. token may be empty;
// when set it is sent as a bearer token on every request.
func New(baseURL, token string, log zerolog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		cache:   cache.New(userDataTTL, 2*userDataTTL),
		log:     log,
	}
}

// FetchUserData loads the user's entire graph from /me/data. This is the
// sole bulk read path. Responses are cached briefly; any successful mutation
// flushes the cache so the next read hits the service.
func (c *Client) FetchUserData(ctx context.Context) (*types.UserData, error) {
	if cached, ok := c.cache.Get(userDataCacheKey); ok {
		return cached.(*types.UserData), nil
	}

	var data types.UserData
	if err := c.do(ctx, http.MethodGet, "/me/data", nil, &data); err != nil {
		return nil, err
	}
	c.cache.Set(userDataCacheKey, &data, cache.DefaultExpiration)
	return &data, nil
}

// Create posts a new entity to its collection and decodes the canonical
// entity the service returns, with server-assigned ID and order fields.
func Create[T any](ctx context.Context, c *Client, projectID string, kind types.Kind, payload any) (T, error) {
	var out T
	path := fmt.Sprintf("/projects/%s/%s", projectID, kind)
	if err := c.mutate(ctx, http.MethodPost, path, payload, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Update puts a payload to one entity and decodes the canonical entity the
// service returns. For most kinds the payload may be partial; worlds require
// the full object (the service does not merge world payloads), which the
// coordinator handles by merging client-side.
func Update[T any](ctx context.Context, c *Client, projectID string, kind types.Kind, id string, payload any) (T, error) {
	var out T
	path := fmt.Sprintf("/projects/%s/%s/%s", projectID, kind, id)
	if err := c.mutate(ctx, http.MethodPut, path, payload, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Delete removes one entity. The service signals success with no body.
func (c *Client) Delete(ctx context.Context, projectID string, kind types.Kind, id string) error {
	path := fmt.Sprintf("/projects/%s/%s/%s", projectID, kind, id)
	return c.mutate(ctx, http.MethodDelete, path, nil, nil)
}

// reorderRequest is the body of both bespoke reorder endpoints.
type reorderRequest struct {
	OrderedIDs []string `json:"orderedIds"`
}

// ReorderEras submits a full era order and returns the complete renumbered
// era collection as confirmed by the service.
func (c *Client) ReorderEras(ctx context.Context, projectID string, orderedIDs []string) ([]*types.Era, error) {
	var out []*types.Era
	path := fmt.Sprintf("/projects/%s/eras/reorder", projectID)
	if err := c.mutate(ctx, http.MethodPut, path, reorderRequest{OrderedIDs: orderedIDs}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReorderEvents submits a full event order for one era and returns the
// complete project timeline as confirmed by the service.
func (c *Client) ReorderEvents(ctx context.Context, projectID, eraID string, orderedIDs []string) ([]*types.TimelineEvent, error) {
	var out []*types.TimelineEvent
	path := fmt.Sprintf("/projects/%s/eras/%s/events/reorder", projectID, eraID)
	if err := c.mutate(ctx, http.MethodPut, path, reorderRequest{OrderedIDs: orderedIDs}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// mutate performs a write request and flushes the bulk-read cache on success.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any) error {
	if err := c.do(ctx, method, path, body, out); err != nil {
		return err
	}
	c.cache.Delete(userDataCacheKey)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("entity service request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("entity service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
