// Package audit implements the append-only audit trail inside caregate.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the compliance context.
// - Entries are insert-only; no interface here exposes update or delete.
// - Other contexts record entries only through the Recorder facade.
package audit
