// Package sink receives serialized profile output.
//
// A [Sink] stores one named document per (source, profile). [FileSink]
// writes into a directory atomically and skips writes whose bytes are
// unchanged, so repeated runs on unchanged input touch nothing. In check
// mode it only reports which files would change. [MemorySink] keeps
// documents in memory for tests and previews; [NullSink] discards them.
package sink

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Status is the outcome of a Put.
type Status string

const (
	// StatusWritten means the document was written.
	StatusWritten Status = "written"
	// StatusUnchanged means an identical document was already present.
	StatusUnchanged Status = "unchanged"
	// StatusStale means, in check mode, that the stored document differs.
	StatusStale Status = "stale"
)

// Sink stores named documents. Implementations must be safe for concurrent
// use with distinct names.
type Sink interface {
	// Put stores data under name.
	Put(ctx context.Context, name string, data []byte) (Status, error)

	// Location returns where name is stored, for reporting.
	Location(name string) string

	// Close releases resources held by the sink.
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
