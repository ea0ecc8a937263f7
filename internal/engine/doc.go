// Package engine implements the mutation engine and the change-control
// state machine for the ACM configuration store.
//
// Immediate operations (adds, assignments, application-type updates) take
// effect at once and are logged with status applied. Removals never
// execute directly: they are written as pending change-log entries and
// only an approval performs the deletion the entry describes.
//
// Multi-process discipline:
//
// Two independent processes (the editor client and the admin client) may
// mutate the same data directory. Every mutating operation therefore
//  1. reloads the authoritative state before computing preconditions,
//  2. claims its log id optimistically: the id is max(existing)+1 from
//     the fresh load, re-verified against the on-disk high-water mark
//     immediately before the log write; a claimed id forces a retry with
//     the newly observed maximum, and persistent contention surfaces as
//     a Conflict error,
//  3. persists through atomic file replaces, so readers never observe a
//     half-written table.
//
// Approval cascades order the log-status write last. If table deletions
// commit and the status write fails, the store is inconsistent but
// detectably so: the validator reports the pending entry whose target
// rows are gone.
package engine
