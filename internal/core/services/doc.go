// Package services implements the core business logic: retrieval,
// answer composition, highlighting, ingestion and credential
// resolution. Services depend only on ports and domain types, never on
// concrete adapters.
package services
