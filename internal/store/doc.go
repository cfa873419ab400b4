// Package store provides SQLite-backed storage for simulation runs.
//
// Each saved run has one row in runs (model, seed, resolved configuration,
// fingerprints and statistics) and one row per output grid point in
// samples. A stored run can be reloaded into an engine.Table and replayed
// from its configuration.
//
// # Ordering
//
//   - seq is assigned on insert and is the only ordering key
//   - Queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//   - Samples are read back ORDER BY row_idx ASC
//
// # Encoding
//
// Configurations, species lists and concentration rows are stored as
// canonical JSON (internal/canon). Seeds are stored as decimal text so
// the full uint64 range survives.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Samples are deleted with their run
package store
