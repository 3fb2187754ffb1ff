// Package persist saves and restores the mark tables.
//
// FileStore reads and writes one JSON snapshot file. Reads tolerate comments
// and trailing commas so the file can be edited by hand; writes go through a
// temporary file and a rename so a crash never leaves a truncated snapshot.
//
// Flusher defers saves: mark updates call Schedule, and the latest snapshot
// is written once the flush delay has passed. Save failures are logged and
// counted, never returned to the code that changed the marks.
package persist
