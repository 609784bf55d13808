package entry

import (
	"strings"

	"github.com/beerlog/beerboard/internal/domain/model"
)

// Column positions in the sheet.
const (
	ColTimestamp = iota
	ColBrand
	ColVariety
	ColDate
	ColLocation
	ColEvent
	ColAlone
	ColEmail
	ColAmount
	ColFood
	ColTimeRange
	ColExtra

	// Columns is the number of positional cells a row is expected to carry.
	Columns
)

// NotAloneSentinel is the only alone-cell value that means "with company".
const NotAloneSentinel = "No"

// ParseRow builds an Entry from one data row. Missing trailing cells read as
// empty. It reports false only when every cell is blank.
func ParseRow(row []string, dir Directory) (model.Entry, bool) {
	if isBlank(row) {
		return model.Entry{}, false
	}
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	email := NormalizeEmail(cell(ColEmail))
	return model.Entry{
		Timestamp: strings.TrimSpace(cell(ColTimestamp)),
		Brand:     NormalizeCategory(cell(ColBrand)),
		Variety:   NormalizeCategory(cell(ColVariety)),
		Date:      ParseDate(cell(ColDate)),
		Location:  NormalizeCategory(cell(ColLocation)),
		Event:     NormalizeCategory(cell(ColEvent)),
		Alone:     cell(ColAlone) != NotAloneSentinel,
		Email:     email,
		Name:      dir.DisplayName(email),
		Amount:    ParseAmount(cell(ColAmount)),
		Food:      NormalizeCategory(cell(ColFood)),
		TimeRange: NormalizeTimeRange(cell(ColTimeRange)),
		Extra:     NormalizeCategory(cell(ColExtra)),
	}, true
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
