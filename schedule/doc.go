// Package schedule decides when to diff a pair of documents that are being
// edited interactively. Edits are debounced by a delay chosen from the input
// size, and every pass is deferred by one clock tick so a "processing" state
// can be shown before the work starts. Time is injected through Clock so the
// whole lifecycle can be stepped deterministically in tests.
package schedule
