// Package sequence provides navigation over ordered, timestamped event
// collections that are only reachable through random access by index.
//
// The host exposes notes and controller events as "get event i" plus a
// count; there is no native iteration and no nearest-neighbor query.
// This package layers cursors, chord (simultaneous group) detection and
// direction-aware seeking on top of that interface.
//
// Events have no stable identity: the host may insert, delete or reorder
// events between any two calls (for example during recording). Every
// dereference therefore re-fetches from the source, and every group
// visit re-sorts the group rather than trusting host ordering.
package sequence
