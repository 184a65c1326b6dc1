package sheet

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// LookupEncoding resolves a WHATWG encoding name such as "windows-1250",
// "iso-8859-2" or "utf-8".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// Decode converts raw sheet bytes to UTF-8 text.
func Decode(raw []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(raw), nil
	}
	b, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode sheet: %w", err)
	}
	return string(b), nil
}
