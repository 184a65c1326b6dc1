package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// row lays out a data row at the published column positions.
func row(place int, name string, points, prior int, school, city string) string {
	buf := []rune(strings.Repeat(" ", 140))
	put := func(col int, s string) {
		copy(buf[col:], []rune(s))
	}
	put(0, fmt.Sprintf("%d.", place))
	put(6, name)
	put(37, "7")
	put(45, fmt.Sprintf("%5d", points))
	put(53, "  0")
	put(61, fmt.Sprintf("%5d", prior))
	put(69, school)
	put(115, city)
	put(136, "Szabo T.")
	return strings.TrimRight(string(buf), " ")
}

// sheetText builds a region sheet around the given data rows.
func sheetText(region string, rows ...string) string {
	var b strings.Builder
	b.WriteString("Zrinyi Ilona Matematikaverseny megyei forduló: " + region + "\r\n")
	b.WriteString("7. osztály\r\n")
	b.WriteString("\r\n")
	b.WriteString("Hely  Név                            Oszt.   Pont    Rossz   Prior   Iskola név                                    Helység\r\n")
	b.WriteString(strings.Repeat("-", 136) + "\r\n")
	for _, r := range rows {
		b.WriteString(r + "\r\n")
	}
	return b.String()
}

// cp1250 encodes text the way the sheets are published.
func cp1250(text string) []byte {
	b, err := charmap.Windows1250.NewEncoder().String(text)
	if err != nil {
		panic(err)
	}
	return []byte(b)
}

// fakeFetcher serves sheets from memory.
type fakeFetcher struct {
	mu     sync.Mutex
	sheets map[int][]byte
	errs   map[int]error
	delay  time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{sheets: map[int][]byte{}, errs: map[int]error{}}
}

func (f *fakeFetcher) put(region int, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sheets[region] = cp1250(text)
}

func (f *fakeFetcher) fail(region int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[region] = err
}

func (f *fakeFetcher) FetchRegionText(ctx context.Context, _, _ string, region int) ([]byte, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[region]; err != nil {
		return nil, err
	}
	return f.sheets[region], nil
}
