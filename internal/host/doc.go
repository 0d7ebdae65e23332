// Package host declares the contract between the announcement engine
// and the host application it observes.
//
// The host is opaque: it executes commands and answers narrow read
// queries, nothing more. Everything here is an interface implemented
// by the embedding layer (or by hosttest for tests); this package
// contains no host logic of its own.
//
// Query misses are normal. An entity deleted by the very action being
// observed reports ErrNotFound and callers treat that as "nothing to
// report", never as a hard failure.
package host
