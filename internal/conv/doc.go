// Package conv provides checked integer conversions.
//
// Snapshot headers store sizes and counts as fixed-width unsigned integers,
// while the in-memory API uses int. Every crossing between the two goes
// through Checked so corrupt or oversized values surface as errors instead
// of silently wrapping.
package conv
