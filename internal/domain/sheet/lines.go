// Package sheet turns the fixed-width text of a regional result sheet into
// competitor records.
//
// A sheet is a header line carrying the region label after a colon, three
// sub-header lines (title and column legend), then one data row per
// competitor, optionally followed by a per-region summary block that starts
// with "Megye".
package sheet

import "strings"

// Line is a non-blank line of a sheet with its 1-based number in the raw text.
type Line struct {
	Number int
	Text   string
}

// Normalize splits text into lines, strips trailing carriage returns and
// drops blank lines. Leading whitespace is preserved since columns are
// positional. Order is preserved.
func Normalize(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for i, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Text: l})
	}
	return lines
}
