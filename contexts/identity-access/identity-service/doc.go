// Package identity implements account lifecycle and authentication
// inside caregate.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence, hashing, and the trail
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the identity-access context.
// - Credential hashes never leave the application layer.
// - Trail entries go through the compliance Recorder, after the primary
//   write commits.
package identity
