package entity

import "time"

// BatchSummary is the frozen outcome of one completed batch run.
// Succeeded + Failed always equals Total.
type BatchSummary struct {
	ID        string    // Batch identifier (uuid)
	Total     int       // Number of link entries given to the batch
	Succeeded int       // Entries that landed in the archive
	Failed    int       // Invalid links and fetch failures
	StartedAt time.Time // When the batch entered the running state
	Elapsed   time.Duration
}

// BatchResult pairs the sealed archive blob with its summary.
// The archive lives only in memory; nothing persists across batches.
type BatchResult struct {
	Archive []byte
	Summary BatchSummary
}

// BatchTotals are aggregate counters across all completed batches,
// kept by the stats repository.
type BatchTotals struct {
	Batches   int64 `json:"batches"`
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}
