// Package store provides SQLite-backed durable storage for recorded runs.
//
// A run is one reduce or map invocation together with the calls its
// callback received:
//   - runs: content-addressed invocation records (inputs and outcome)
//   - calls: one row per callback call, in call order
//
// # Critical Patterns
//
// Idempotency
//   - runs.id is the content-addressed value.RunID, so recording the same
//     invocation twice is a no-op (ON CONFLICT DO NOTHING)
//
// Logical Time
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//
// Deterministic Query Results
//   - All queries include: ORDER BY seq ASC, id COLLATE BINARY ASC
//
// Values are stored as RFC 8785 canonical JSON text produced by the value
// package. The store never decodes them.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity (calls cascade)
package store
