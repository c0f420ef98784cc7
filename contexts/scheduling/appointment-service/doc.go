// Package scheduling implements appointment booking inside caregate.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence and the trail
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the scheduling context.
// - A provider holds at most one active appointment per instant; the
//   repository is the arbiter under concurrent writers.
// - Trail entries go through the compliance Recorder, after the primary
//   write commits.
package scheduling
