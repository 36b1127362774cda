package entity

// Table is a row-oriented view of an uploaded tabular file.
// Header holds the first row; Rows hold the rest, each padded or cut
// to the header length by the loader.
type Table struct {
	Header []string
	Rows   [][]string
}
