package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/zrinyi/internal/domain/model"
)

const (
	// headerLines counts the region header plus the fixed sub-header rows.
	headerLines = 4
	// summaryPrefix opens the per-region summary block after the data rows.
	summaryPrefix = "Megye"
)

// Option applies a configuration option to an extraction.
type Option func(*extractor)

// WithLayout overrides the column layout.
func WithLayout(l Layout) Option {
	return func(e *extractor) {
		e.layout = l
	}
}

// WithLenient skips malformed rows instead of failing the region. Skipped
// rows are reported in Sheet.Skipped.
func WithLenient(lenient bool) Option {
	return func(e *extractor) {
		e.lenient = lenient
	}
}

// Sheet is the outcome of extracting one region.
type Sheet struct {
	RegionName string
	Records    []model.CompetitorRecord
	// Skipped holds the malformed rows dropped in lenient mode.
	Skipped []error
}

type extractor struct {
	layout  Layout
	lenient bool
}

// Extract maps the normalized lines of one region to records tagged with
// regionID and the region name parsed from the header line. Extraction stops
// at the first row starting with "Megye".
func Extract(regionID int, lines []Line, opts ...Option) (Sheet, error) {
	e := &extractor{layout: DefaultLayout}
	for _, opt := range opts {
		opt(e)
	}

	var out Sheet
	if len(lines) == 0 {
		return out, nil
	}
	out.RegionName = RegionName(lines[0].Text)

	if len(lines) <= headerLines {
		return out, nil
	}
	for _, line := range lines[headerLines:] {
		if strings.HasPrefix(line.Text, summaryPrefix) {
			break
		}
		rec, err := e.record(line)
		if err != nil {
			err = fmt.Errorf("region %d line %d: %w", regionID, line.Number, err)
			if !e.lenient {
				return Sheet{}, err
			}
			out.Skipped = append(out.Skipped, err)
			continue
		}
		rec.RegionID = regionID
		rec.RegionName = out.RegionName
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

// RegionName returns the header text starting two characters after the
// first colon, right-trimmed. Without a colon the name is empty.
func RegionName(header string) string {
	i := strings.IndexByte(header, ':')
	if i < 0 || i+2 > len(header) {
		return ""
	}
	return strings.TrimRight(header[i+2:], " \t")
}

func (e *extractor) record(line Line) (model.CompetitorRecord, error) {
	runes := []rune(line.Text)
	if len(runes) < e.layout.MinWidth() {
		return model.CompetitorRecord{}, fmt.Errorf("%w: %w: %d < %d characters",
			ErrMalformedLine, ErrLineTooShort, len(runes), e.layout.MinWidth())
	}

	points, err := number(runes, e.layout.Points)
	if err != nil {
		return model.CompetitorRecord{}, err
	}
	prior, err := number(runes, e.layout.Prior)
	if err != nil {
		return model.CompetitorRecord{}, err
	}

	return model.CompetitorRecord{
		Name:   text(runes, e.layout.Name),
		School: text(runes, e.layout.School),
		City:   text(runes, e.layout.City),
		Points: points,
		Prior:  prior,
		Line:   line.Number,
	}, nil
}

// window returns the characters of c, clipped to the end of the row.
func window(runes []rune, c Column) string {
	start, end := c.Start, c.End
	if start > len(runes) {
		start = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

// text right-trims spaces only; leading spaces are kept as published.
func text(runes []rune, c Column) string {
	return strings.TrimRight(window(runes, c), " ")
}

func number(runes []rune, c Column) (int, error) {
	raw := strings.TrimSpace(window(runes, c))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w: %s %q", ErrMalformedLine, ErrNotNumeric, c.Field, raw)
	}
	return n, nil
}
