// Package model contains domain models passed between layers.
package model

import "fmt"

// CompetitorRecord is one data row of a region result sheet.
type CompetitorRecord struct {
	RegionID   int    `json:"region_id"`
	RegionName string `json:"region"`
	Name       string `json:"name"`
	School     string `json:"school"`
	City       string `json:"city"`
	Points     int    `json:"points"`
	Prior      int    `json:"prior"`
	Line       int    `json:"-"` // 1-based line in the raw sheet
}

// SchoolKey returns the school+city discriminator used for aggregation.
func (r CompetitorRecord) SchoolKey() string {
	return SchoolKey(r.School, r.City)
}

// SchoolKey formats the "{school} ({city})" key.
func SchoolKey(school, city string) string {
	return fmt.Sprintf("%s (%s)", school, city)
}

// RankedRecord is a record placed on the merged leaderboard.
type RankedRecord struct {
	CompetitorRecord

	// Position is the 1-based place in the sorted sequence.
	Position int `json:"position"`
	// Tied marks a row whose (Points, Prior) equals the previous row's;
	// its displayed rank is blank.
	Tied bool `json:"tied"`
}

// DisplayRank returns the rank to show, or 0 when the row is tied.
func (r RankedRecord) DisplayRank() int {
	if r.Tied {
		return 0
	}
	return r.Position
}

// SchoolAggregate accumulates the best competitors of one school.
type SchoolAggregate struct {
	Key          string `json:"school"`
	TotalPoints  int    `json:"points"`
	TotalPrior   int    `json:"prior"`
	Contributors int    `json:"contributors"`
}

// RankedSchool is a school aggregate placed on the school ranking.
type RankedSchool struct {
	SchoolAggregate

	Position int `json:"position"`
}

// RegionStatus summarizes what one region contributed to a run.
type RegionStatus struct {
	ID      int    `json:"id"`
	Name    string `json:"name,omitempty"`
	Records int    `json:"records"`
	Missing bool   `json:"missing"`
	Reason  string `json:"reason,omitempty"`
}
