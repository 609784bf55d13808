package model

// PlayerStats is the per-member slice of a DashboardData.
type PlayerStats struct {
	Alias             string         `json:"alias"`
	TotalBeers        int            `json:"totalBeers"`
	TotalMilliliters  int            `json:"totalMilliliters"`
	DrankAlone        int            `json:"drankAlone"`
	Locations         map[string]int `json:"locations"`
	Varieties         map[string]int `json:"varieties"`
	Brands            map[string]int `json:"brands"`
	Events            map[string]int `json:"events"`
	TimeRanges        map[string]int `json:"timeRanges"`
	BeerPerDay        map[string]int `json:"beerPerDay"`
	MilliLitersPerDay map[string]int `json:"milliLitersPerDay"`
	Entries           []Entry        `json:"entries"`
}

// NewPlayerStats returns stats with every map allocated.
func NewPlayerStats(alias string) *PlayerStats {
	return &PlayerStats{
		Alias:             alias,
		Locations:         map[string]int{},
		Varieties:         map[string]int{},
		Brands:            map[string]int{},
		Events:            map[string]int{},
		TimeRanges:        map[string]int{},
		BeerPerDay:        map[string]int{},
		MilliLitersPerDay: map[string]int{},
		Entries:           []Entry{},
	}
}

// DashboardData is the aggregate produced by one pass over the sheet.
// A refresh builds a new value; nothing updates an existing one.
//
// The global histograms and series equal the sums of the per-member ones.
type DashboardData struct {
	Entries                 []Entry                 `json:"entries"`
	StartDate               string                  `json:"startDate"`
	TotalBeers              int                     `json:"totalBeers"`
	TotalMilliliters        int                     `json:"totalMilliliters"`
	GlobalBrands            map[string]int          `json:"globalBrands"`
	GlobalVarieties         map[string]int          `json:"globalVarieties"`
	GlobalEvents            map[string]int          `json:"globalEvents"`
	GlobalLocations         map[string]int          `json:"globalLocations"`
	GlobalTimeRanges        map[string]int          `json:"globalTimeRanges"`
	GlobalAlone             int                     `json:"globalAlone"`
	GlobalBeerPerDay        map[string]int          `json:"globalBeerPerDay"`
	GlobalMilliLitersPerDay map[string]int          `json:"globalMilliLitersPerDay"`
	PlayersStats            map[string]*PlayerStats `json:"playersStats"`
	// Players holds member emails in first-seen order.
	Players []string `json:"players"`
}

// NewDashboardData returns an empty aggregate with every map allocated.
func NewDashboardData(startDate string) *DashboardData {
	return &DashboardData{
		Entries:                 []Entry{},
		StartDate:               startDate,
		GlobalBrands:            map[string]int{},
		GlobalVarieties:         map[string]int{},
		GlobalEvents:            map[string]int{},
		GlobalLocations:         map[string]int{},
		GlobalTimeRanges:        map[string]int{},
		GlobalBeerPerDay:        map[string]int{},
		GlobalMilliLitersPerDay: map[string]int{},
		PlayersStats:            map[string]*PlayerStats{},
		Players:                 []string{},
	}
}

// Player returns the stats for email, or nil.
func (d *DashboardData) Player(email string) *PlayerStats {
	if d == nil {
		return nil
	}
	return d.PlayersStats[email]
}
