// Package store provides SQLite-backed durable storage for the career
// development schema: users, competencies, courses, assessments and
// course intentions.
//
// The store is the single entry point to the database. Every operation
// returns typed records constructed at the storage boundary; no caller
// ever sees raw rows or the underlying connection. Multi-statement
// operations (cascading user deletion, catalog seeding) run inside one
// transaction so partial failure leaves no orphans.
//
// # Constraints
//
//   - users.email is UNIQUE
//   - assessments has UNIQUE(user_id, competency_id); writes upsert
//   - score and priority are CHECKed into [1,5]
//   - levels, categories and intention statuses are CHECKed enums
//   - course competency id lists are a JSON column with no foreign key:
//     dangling ids are tolerated and skipped on resolution
//
// Constraint failures surface as *ConstraintError; absent lookups return
// nil, not an error.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
