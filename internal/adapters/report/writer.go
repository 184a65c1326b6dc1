// Package report renders run results: the fixed-width text report shared by
// the report file and the status stream, and the console region summary.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/zrinyi/internal/domain/model"
)

const (
	leaderboardFormat = "%3s %-35s %3d  %3d  %-50s %-20s\n"
	schoolFormat      = "%3d %-60s %3d  %3d\n"
	bannerFormat      = "Iskolak osszesitett eredmenye (legjobb %d versenyzo)\n"
	fileNameFormat    = "eredmenyek_%s_%s.txt"
	reportFilePerm    = 0o644
)

// FileName returns the report file name for one year and grade.
func FileName(year, grade string) string {
	return fmt.Sprintf(fileNameFormat, year, grade)
}

// Banner returns the school section header, newline included.
func Banner(topN int) string {
	return fmt.Sprintf(bannerFormat, topN)
}

// WriteLeaderboard writes one line per ranked competitor. Tied rows get a
// blank rank field of the same width.
func WriteLeaderboard(w io.Writer, board []model.RankedRecord) error {
	for _, r := range board {
		rank := ""
		if !r.Tied {
			rank = fmt.Sprint(r.Position)
		}
		if _, err := fmt.Fprintf(w, leaderboardFormat, rank, r.Name, r.Points, r.Prior, r.School, r.City); err != nil {
			return fmt.Errorf("write leaderboard: %w", err)
		}
	}
	return nil
}

// WriteSchools writes a blank separator line, the banner and one line per
// ranked school.
func WriteSchools(w io.Writer, schools []model.RankedSchool, topN int) error {
	if _, err := io.WriteString(w, "\n"+Banner(topN)); err != nil {
		return fmt.Errorf("write schools: %w", err)
	}
	for _, s := range schools {
		if _, err := fmt.Fprintf(w, schoolFormat, s.Position, s.Key, s.TotalPoints, s.TotalPrior); err != nil {
			return fmt.Errorf("write schools: %w", err)
		}
	}
	return nil
}

// Write renders the complete report to w.
func Write(w io.Writer, board []model.RankedRecord, schools []model.RankedSchool, topN int) error {
	bw := bufio.NewWriter(w)
	if err := WriteLeaderboard(bw, board); err != nil {
		return err
	}
	if err := WriteSchools(bw, schools, topN); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// Save writes the report to FileName(year, grade) inside dir and mirrors the
// same bytes to mirror when it is not nil. It returns the file path.
func Save(dir, year, grade string, mirror io.Writer, board []model.RankedRecord, schools []model.RankedSchool, topN int) (string, error) {
	path := filepath.Join(dir, FileName(year, grade))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, reportFilePerm)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReportFile, err)
	}

	var w io.Writer = f
	if mirror != nil {
		w = io.MultiWriter(f, mirror)
	}
	werr := Write(w, board, schools, topN)
	cerr := f.Close()
	if werr != nil {
		return "", werr
	}
	if cerr != nil {
		return "", fmt.Errorf("%w: %w", ErrReportFile, cerr)
	}
	return path, nil
}
