// Package dataframe provides the minimal tabular abstraction the EFD client
// works in terms of: an ordered sequence of named columns sharing a
// time-typed row index.
//
// It is deliberately not a general-purpose dataframe library. It carries
// exactly the operations the query pipeline needs (column selection, row
// filtering, stable index sorting, row-wise concatenation with column
// union, and re-indexing) and nothing else.
//
// # Immutability
//
// Frames are derive-only. Constructors copy their inputs and every
// operation returns a new frame; a frame handed to the unpacking or
// alignment code is never modified through it.
//
// # Missing values
//
// A missing entry is nil. Float64s maps nil to NaN so numeric pipelines
// can treat gaps uniformly.
//
// # Thread Safety
//
// Frames are immutable after construction and safe for concurrent reads.
package dataframe
