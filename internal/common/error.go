package common

import "fmt"

var (
	ErrColumnNotFound         = fmt.Errorf("column not found")
	ErrUnsupportedFileFormat  = fmt.Errorf("unsupported file format")
	ErrNoLinks                = fmt.Errorf("no links found")
	ErrBadStatus              = fmt.Errorf("bad response status")
	ErrBodyTooLarge           = fmt.Errorf("response body too large")
	ErrArchiveSealed          = fmt.Errorf("archive is sealed")
	ErrBatchHasAlreadyStarted = fmt.Errorf("batch process has already started")
)
