// Shared helpers for quill CLI commands: session wiring and output modes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/quill/internal/coordinator"
	"github.com/mesh-intelligence/quill/internal/remote"
	"github.com/mesh-intelligence/quill/internal/snapshot"
	"github.com/mesh-intelligence/quill/internal/store"
	"github.com/mesh-intelligence/quill/pkg/types"
)

// session wires the store, snapshot, remote client, and coordinator for one
// command invocation. The store is seeded from the local snapshot when one
// exists, otherwise from a fresh /me/data load.
type session struct {
	store *store.Store
	coord *coordinator.Coordinator
	snap  *snapshot.Store
}

// openSession builds a session. The caller must invoke done when finished.
func openSession(ctx context.Context) (s *session, done func(), err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration incomplete (run quill with --config-dir or edit config.yaml): %w", err)
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}
	snap, err := snapshot.Open(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot: %w", err)
	}

	st := store.New()
	coord := coordinator.New(st, remote.New(cfg.ServiceURL, cfg.Token, log), log)

	// Every committed store change refreshes the offline snapshot. The
	// snapshot is a cache; a failed save is logged, never fatal.
	st.OnChange(func(d *types.UserData) {
		if err := snap.Save(cfg.Username, d); err != nil {
			log.Warn().Err(err).Msg("snapshot save failed")
		}
	})

	coord.OnCommit(func(c coordinator.Commit) {
		log.Info().
			Str("op", c.Op).
			Str("kind", string(c.Kind)).
			Str("id", c.EntityID).
			Msg("change confirmed")
	})

	cached, err := snap.Load(cfg.Username)
	switch {
	case err == nil:
		if err := coord.Restore(cached); err != nil {
			snap.Close()
			return nil, nil, err
		}
	case errors.Is(err, snapshot.ErrNoSnapshot):
		if _, err := coord.Load(ctx); err != nil {
			snap.Close()
			return nil, nil, err
		}
	default:
		snap.Close()
		return nil, nil, err
	}

	s = &session{store: st, coord: coord, snap: snap}
	return s, func() { _ = snap.Close() }, nil
}

// reportErr shortens a service rejection to the message the service
// supplied; local failures (contract violations, missing entities) pass
// through unchanged.
func reportErr(err error) error {
	var remoteErr *remote.Error
	if errors.As(err, &remoteErr) {
		return errors.New(remoteErr.Message)
	}
	return err
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
