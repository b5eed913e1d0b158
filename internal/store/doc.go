// Package store provides SQLite-backed run history.
//
// Every run records one row in runs and one row per executed unit in
// outcomes. Rows are written once and never updated.
//
// Ordering: runs are listed newest first by start time, then by ID;
// outcomes are listed by ordinal. Run IDs are UUIDv7 strings, so IDs of
// runs started in the same millisecond still sort in creation order.
package store
