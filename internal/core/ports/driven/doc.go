// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding and generation services, the
// vector index, document readers and the metadata stores.
//
// Implementations live under internal/adapters/driven and
// internal/readers.
package driven
