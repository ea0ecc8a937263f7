// Package tables implements the durable table store for the ACM
// configuration: five flat CSV relations plus the change log, loaded as
// one in-memory snapshot and persisted table-at-a-time.
//
// Durability model:
//   - Every persist is atomic at file granularity: rows are written to a
//     uniquely named temp file in the same directory, fsynced, then
//     renamed over the target. Concurrent readers never observe a
//     half-written table.
//   - The store provides no locking. Two independent processes (editor
//     and admin clients) may share a data directory; writers are expected
//     to reload before computing preconditions and to verify the change
//     log high-water mark before claiming a log id (see internal/engine).
//
// The store exclusively owns the on-disk representation. External edits
// are supported via Reload, and a directory watcher surfaces them.
package tables
