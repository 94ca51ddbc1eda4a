// Package buffer provides the sample storage used by the acquisition
// pipeline: a fixed-capacity rolling window of the most recent samples and a
// reusable float64 scratch buffer with a sync.Pool-backed allocator for
// per-tick processing.
//
// Neither type is safe for concurrent use. The owner of a [Rolling] is
// responsible for serializing Push and Snapshot.
package buffer
