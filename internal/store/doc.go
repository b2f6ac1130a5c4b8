// Package store persists card collections as JSON files, one file per
// study topic, inside a single cards directory.
//
// The file is the single source of truth: every update loads the
// current collection, applies one mutation, re-validates and rewrites
// the whole file. Writes go to a temporary file in the same directory
// followed by a rename, so a crash mid-write can never leave a
// half-written collection behind.
//
// The store assumes a single active reviewer process per filename; a
// per-store mutex makes each update atomic with respect to itself.
package store
