package fetch

import "errors"

// Sentinel kinds for retrieval errors. Callers treat all of them as a
// missing region.
var (
	ErrNotCached        = errors.New("sheet not cached and downloads disabled")
	ErrUnexpectedStatus = errors.New("unexpected download status")
	ErrDownload         = errors.New("download failed")
	ErrCache            = errors.New("cache access failed")
)
