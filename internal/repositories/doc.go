// Package repositories implements persistence for the bot's per-user state.
//
// Key Implementations:
//   - [SettingsStore] : user id → autofix preference, kept in memory and written
//     through to a flat JSON file on every change
//
// The store is the only mutable state shared between tasks. Reads take the read
// lock; [SettingsStore.SetAndPersist] holds the write lock across both the map
// update and the file write, so two updates never interleave their disk writes.
//
// A failed write keeps the in-memory value and reports [shared.ErrPersist]; memory
// and disk then differ until the next successful write.
package repositories
