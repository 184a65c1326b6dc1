package sheet

import "errors"

// Sentinel kinds for sheet errors.
var (
	// ErrMalformedLine marks a data row that cannot be turned into a record.
	ErrMalformedLine = errors.New("malformed line")
	// ErrLineTooShort and ErrNotNumeric detail ErrMalformedLine.
	ErrLineTooShort = errors.New("line shorter than column layout")
	ErrNotNumeric   = errors.New("non-numeric value in numeric column")

	ErrUnknownEncoding = errors.New("unknown sheet encoding")
)
