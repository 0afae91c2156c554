// Package repositories implements SQLite persistence for the show tracker.
//
// Key Implementations:
//   - [ShowRepository] : shows keyed by provider series id, with genre, episode and subscriber rows
//   - [UserRepository] : accounts with unique emails and bcrypt-hashed passwords
//
// Writes that touch several tables run in one transaction. Constraint violations on primary keys
// or unique columns surface as [shared.ErrDuplicateKey]; every other driver failure is wrapped in
// [shared.ErrStorage]. Missing rows are [shared.ErrNotFound].
//
// Sequence numbers record insertion order independent of ids, and back the default listing order.
// They are drawn from per-table sequence tables inside the writing transaction.
package repositories
