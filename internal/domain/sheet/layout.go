package sheet

// Column is a half-open character window [Start, End) of a data row.
type Column struct {
	Field string
	Start int
	End   int
}

// Layout names the columns of a data row. Positions are characters of the
// decoded line, which match bytes of the single-byte published encoding.
type Layout struct {
	Name   Column
	Points Column
	Prior  Column
	School Column
	City   Column
}

// DefaultLayout matches the published sheets:
//
//	Hely  Név                            Oszt.   Pont    Rossz   Prior   Iskola név                                    Helység              Tanarok
//	0     6                              37      45      53      61      69                                            115                  136
var DefaultLayout = Layout{
	Name:   Column{Field: "name", Start: 6, End: 35},
	Points: Column{Field: "points", Start: 45, End: 52},
	Prior:  Column{Field: "prior", Start: 61, End: 68},
	School: Column{Field: "school", Start: 69, End: 115},
	City:   Column{Field: "city", Start: 115, End: 135},
}

// Columns returns the layout as a table in column order.
func (l Layout) Columns() []Column {
	return []Column{l.Name, l.Points, l.Prior, l.School, l.City}
}

// MinWidth is the shortest data row accepted: it must reach at least one
// character into every column. Trailing blanks of the last text column are
// often stripped by the publisher, so a full-width row is not required.
func (l Layout) MinWidth() int {
	w := 0
	for _, c := range l.Columns() {
		if c.Start+1 > w {
			w = c.Start + 1
		}
	}
	return w
}
