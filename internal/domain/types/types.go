// Package types contains the query result shapes served to clients.
package types

// LeaderboardItem is one member row of the beer leaderboard.
type LeaderboardItem struct {
	Rank      int     `json:"rank"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Beers     int     `json:"beers"`
	Liters    float64 `json:"liters"`    // one decimal
	AvgPerDay float64 `json:"avgPerDay"` // two decimals
}

// TotalStats summarizes the whole log over the season.
type TotalStats struct {
	TotalBeers      int     `json:"totalBeers"`
	TotalLiters     float64 `json:"totalLiters"`
	AvgBeersPerDay  float64 `json:"avgBeersPerDay"`
	AvgLitersPerDay float64 `json:"avgLitersPerDay"`
	TotalDays       int     `json:"totalDays"`
	DaysSinceStart  int     `json:"daysSinceStart"`
}

// DayRecord is a day total, either global or for one member.
type DayRecord struct {
	Date        string  `json:"date"`
	DisplayDate string  `json:"displayDate"`
	Email       string  `json:"email,omitempty"`
	Name        string  `json:"name,omitempty"`
	Beers       int     `json:"beers"`
	Milliliters int     `json:"milliliters"`
	Liters      float64 `json:"liters"`
}

// Milestone marks the day a member's running total reached a multiple of the step.
type Milestone struct {
	Date        string `json:"date"`
	DisplayDate string `json:"displayDate"`
	Email       string `json:"email"`
	Member      string `json:"member"`
	Beers       int    `json:"beers"` // running total on that day
	Milestone   int    `json:"milestone"`
}

// MonthPoint is one month bucket of a consumption series.
type MonthPoint struct {
	Month  string  `json:"month"` // YYYY-MM
	Label  string  `json:"label"`
	Beers  int     `json:"beers"`
	Liters float64 `json:"liters"`
}

// ProgressionPoint is one day of a member's cumulative progression.
type ProgressionPoint struct {
	Date             string  `json:"date"`
	Beers            int     `json:"beers"`
	Liters           float64 `json:"liters"`
	Cumulative       int     `json:"cumulative"`
	CumulativeLiters float64 `json:"cumulativeLiters"`
}

// MonthGrid is a members by months table of beer counts.
type MonthGrid struct {
	Months []string       `json:"months"`
	Labels []string       `json:"labels"`
	Rows   []MonthGridRow `json:"rows"`
}

// MonthGridRow holds one member's counts aligned with MonthGrid.Months.
type MonthGridRow struct {
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Beers  []int     `json:"beers"`
	Liters []float64 `json:"liters"`
	Total  int       `json:"total"`
}

// ComparisonRow is one line of a two-member comparison.
type ComparisonRow struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Player1Value float64 `json:"player1Value"`
	Player2Value float64 `json:"player2Value"`
}

// ComparisonTotals sums a comparison table.
type ComparisonTotals struct {
	Player1    float64 `json:"player1"`
	Player2    float64 `json:"player2"`
	Difference float64 `json:"difference"` // player1 - player2
}

// AloneItem ranks members by solo drinks.
type AloneItem struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	AloneCount int    `json:"aloneCount"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// CategoryShare is a histogram bucket with its share of the total.
type CategoryShare struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // one decimal
}

// MemberBrands lists a member's favourite brands.
type MemberBrands struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	UniqueBrands int             `json:"uniqueBrands"`
	Top          []CategoryShare `json:"top"`
}
