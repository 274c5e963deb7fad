// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: read-only access to documents and groups
//   - ConfigStore: application configuration
//
// # Import Interfaces
//
// Only the importer uses these; the analytics engine never writes:
//
//   - DocumentWriter: document persistence
//   - DocumentSource: walks and watches a directory of files
//   - Normaliser: transforms raw files into documents
//   - NormaliserRegistry: selects the appropriate normaliser
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
