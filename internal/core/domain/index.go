package domain

import "time"

// IndexState tracks where a domain's index is in its lifecycle.
// Valid and Failed are terminal for a single load attempt; every call
// restarts the machine from scratch.
type IndexState int

const (
	// IndexMissing means no persisted index directory or metadata exists.
	IndexMissing IndexState = iota

	// IndexStale means source documents changed after the index was built.
	IndexStale

	// IndexPresent means persisted storage exists and can be opened.
	IndexPresent

	// IndexValidating means the synthetic query check is running.
	IndexValidating

	// IndexValid means the index answered the synthetic query and is
	// usable for retrieval.
	IndexValid

	// IndexFailed means the build attempt itself failed. Retrieval is
	// unavailable until a later call succeeds.
	IndexFailed
)

// String returns the state name.
func (s IndexState) String() string {
	switch s {
	case IndexMissing:
		return "missing"
	case IndexStale:
		return "stale"
	case IndexPresent:
		return "present"
	case IndexValidating:
		return "validating"
	case IndexValid:
		return "valid"
	case IndexFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IndexInfo describes a persisted index for one domain.
type IndexInfo struct {
	// Domain is the collection name and partition key.
	Domain string

	// Dir is the persisted index directory.
	Dir string

	// DocumentCount is the number of documents recorded at build time.
	DocumentCount int

	// ChunkCount is the number of embedded chunks written at build time.
	ChunkCount int

	// BuiltAt is the build timestamp, derived from storage mtime.
	BuiltAt time.Time

	// State is the lifecycle state observed by the last load.
	State IndexState
}
