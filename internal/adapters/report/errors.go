package report

import "errors"

// ErrReportFile marks a report file that could not be created or written.
var ErrReportFile = errors.New("report file")
