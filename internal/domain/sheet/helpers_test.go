package sheet_test

import (
	"fmt"
	"strings"
)

// row lays out a data row at the published column positions.
func row(place int, name string, grade string, points, wrong, prior int, school, city string) string {
	buf := []rune(strings.Repeat(" ", 140))
	put := func(col int, s string) {
		copy(buf[col:], []rune(s))
	}
	put(0, fmt.Sprintf("%d.", place))
	put(6, name)
	put(37, grade)
	put(45, fmt.Sprintf("%5d", points))
	put(53, fmt.Sprintf("%3d", wrong))
	put(61, fmt.Sprintf("%5d", prior))
	put(69, school)
	put(115, city)
	put(136, "Szabo T.")
	return strings.TrimRight(string(buf), " ")
}

// sheetText builds a region sheet around the given data rows.
func sheetText(region string, rows ...string) string {
	var b strings.Builder
	b.WriteString("Zrinyi Ilona Matematikaverseny 2024 megyei forduló: " + region + "\r\n")
	b.WriteString("7. osztály\r\n")
	b.WriteString("\r\n")
	b.WriteString("Hely  Név                            Oszt.   Pont    Rossz   Prior   Iskola név                                    Helység              Tanarok\r\n")
	b.WriteString("----------------------------------------------------------------------------------------------------------------------------------------\r\n")
	for _, r := range rows {
		b.WriteString(r + "\r\n")
	}
	return b.String()
}
