// Package types defines the entity graph data model, entity-kind names, and
// standard errors shared by the store, ordering engine, mutation coordinator,
// and remote service client.
// See docs/ARCHITECTURE.md § Data Model.
package types
