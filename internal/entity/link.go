package entity

// LinkEntry is one value taken from the chosen column of the uploaded table.
// Index is 1-based and assigned after empty cells are dropped; it determines
// the archive filename and the progress fraction, so ordering is significant.
type LinkEntry struct {
	Index    int    // Position in the extracted column, starting at 1
	RawValue string // Cell content as-is, no trimming
}

// FetchResult holds the raw response of a single successful image fetch.
type FetchResult struct {
	Body        []byte // Response body bytes
	ContentType string // Declared Content-Type header, used only as an extension hint
}
