// Package zarrgo implements chunked, compressed, N-dimensional array
// storage: a hierarchy of groups and arrays persisted as metadata
// documents and independently encoded chunk blobs in a pluggable
// key-value store.
//
// An Array pairs a validated metadata document with a store. Chunks are
// read and written through the metadata's codec pipeline; chunks that
// were never written read back filled with the array's fill value.
// Region operations assemble and scatter data across the chunks that
// overlap a hyper-rectangle of interest.
//
// Engine calls are stateless and synchronous; an Array is safe for
// concurrent use, with same-key write races resolved by the store.
package zarrgo
