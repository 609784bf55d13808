// Package testrows generates synthetic beer-log sheets for tests, fixtures
// and smoke runs against a live server.
package testrows

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Header is the sheet's first row.
var Header = []string{ //nolint:gochecknoglobals // fixed layout
	"Marca temporal", "Marca", "Variedad", "Fecha", "Lugar", "Evento",
	"Solo", "Dirección de correo electrónico", "Cantidad", "Comida", "Rango horario", "Extra",
}

// Generation pools. Labels repeat with case and spacing variants on purpose.
var (
	brands    = []string{"Quilmes", "quilmes ", "Patagonia", "PATAGONIA", "Stella Artois", "stella  artois", "Andes", "Heineken", ""}                        //nolint:gochecknoglobals // pool
	varieties = []string{"Rubia", "rubia", "IPA", "ipa", "Negra", "Roja", "Golden Ale", "golden ale", ""}                                                  //nolint:gochecknoglobals // pool
	locations = []string{"Casa", "casa", "Bar", "Cancha", "Oficina", "bar ", ""}                                                                          //nolint:gochecknoglobals // pool
	events    = []string{"Asado", "asado", "Partido", "Cumpleaños", "Previa", "After Office", ""}                                                          //nolint:gochecknoglobals // pool
	foods     = []string{"", "Pizza", "Empanadas", "Papas"}                                                                                               //nolint:gochecknoglobals // pool
	amounts   = []string{"330", "473", "500", "1000", "355", "", "mucho", "710"}                                                                          //nolint:gochecknoglobals // pool
	alone     = []string{"No", "No", "No", "Sí", ""}                                                                                                      //nolint:gochecknoglobals // pool
	ranges    = []string{"0-3", "4-7", "8-11", "12-15", "16-19", "20-23", "20 - 23hs", "16 -19 h", "00-03hs", "", "whenever"}                              //nolint:gochecknoglobals // pool
)

// Config controls generation.
type Config struct {
	Rows     int       // data rows, header excluded
	Members  int       // distinct submitter emails
	Seed     uint64    // PCG seed; equal seeds give equal sheets
	Start    time.Time // first possible date
	Days     int       // date spread
	BadDates float64   // share of rows with a malformed date cell
	Blanks   float64   // share of fully blank rows
}

// DefaultConfig returns a small, messy sheet spread over the season.
func DefaultConfig() Config {
	return Config{
		Rows:     500,
		Members:  5,
		Seed:     42,
		Start:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Days:     120,
		BadDates: 0.03,
		Blanks:   0.02,
	}
}

// Emails returns the member addresses used for n members.
func Emails(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("member%02d@example.com", i+1)
	}
	return out
}

// Generate builds a sheet: the header row followed by cfg.Rows data rows.
func Generate(cfg Config) [][]string {
	if cfg.Members <= 0 {
		cfg.Members = 1
	}
	if cfg.Days <= 0 {
		cfg.Days = 1
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // deterministic fixtures
	emails := Emails(cfg.Members)

	rows := make([][]string, 0, cfg.Rows+1)
	rows = append(rows, append([]string(nil), Header...))
	for i := 0; i < cfg.Rows; i++ {
		if rng.Float64() < cfg.Blanks {
			rows = append(rows, []string{"", "", ""})
			continue
		}
		day := cfg.Start.AddDate(0, 0, rng.IntN(cfg.Days))
		date := strconv.Itoa(day.Day()) + "/" + strconv.Itoa(int(day.Month())) + "/" + strconv.Itoa(day.Year())
		if rng.Float64() < cfg.BadDates {
			date = pick(rng, []string{"", "32/13/2025", "ayer", day.Format("2006-01-02")})
		}
		email := emails[rng.IntN(len(emails))]
		if rng.IntN(10) == 0 {
			email = strings.ToUpper(email[:1]) + email[1:]
		}
		row := []string{
			day.Add(time.Duration(rng.IntN(86400)) * time.Second).Format("2/1/2006 15:04:05"),
			pick(rng, brands),
			pick(rng, varieties),
			date,
			pick(rng, locations),
			pick(rng, events),
			pick(rng, alone),
			email,
			pick(rng, amounts),
			pick(rng, foods),
			pick(rng, ranges),
			"",
		}
		// Some exports drop trailing empty cells.
		if rng.IntN(5) == 0 {
			row = row[:8+rng.IntN(4)]
		}
		rows = append(rows, row)
	}
	return rows
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.IntN(len(pool))]
}
