package tba

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

const teamKeyPrefix = "frc"

var ErrUnsupportedSeason = errors.New("unsupported season")

type UnsupportedSeasonError struct {
	Year int
}

func (e *UnsupportedSeasonError) Error() string {
	return fmt.Sprintf("no ranking schema registered for year %d", e.Year)
}

func (e *UnsupportedSeasonError) Is(target error) bool {
	return target == ErrUnsupportedSeason
}

// IsValidEventCode reports whether code begins with at least one digit.
func IsValidEventCode(code string) bool {
	return code != "" && code[0] >= '0' && code[0] <= '9'
}

// IsWellFormedEventCode reports whether code is a non-empty run of ASCII
// letters and digits, with or without a leading season year.
func IsWellFormedEventCode(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range code {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// IsValidYear accepts a year as a string or any number type and reports
// whether a ranking schema is registered for it. Input that is not a number
// is simply not a valid year.
func IsValidYear(year any) bool {
	y, ok := parseYear(year)
	if !ok {
		return false
	}
	_, ok = rankingNames[Season(y)]
	return ok
}

func parseYear(year any) (int, bool) {
	switch y := year.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			return 0, false
		}
		return n, true
	case Season:
		return int(y), true
	}

	v := reflect.ValueOf(year)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := v.Uint()
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case reflect.Float32, reflect.Float64:
		// numbers decoded from JSON arrive as float64
		f := v.Float()
		if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// Convert maps a team's ranking record onto the TBA row layout for the given
// year.
func Convert(r TeamRankingRecord, year int) (RankingRow, error) {
	season := Season(year)
	var sorts []float64
	switch season {
	case Season2018, Season2019:
		sorts = []float64{r.Sort1, r.Sort2, r.Sort3, r.Sort4, r.Sort5}
	case Season2022:
		sorts = []float64{r.Sort1, r.Sort2, r.Sort3, r.Sort4}
	default:
		return nil, &UnsupportedSeasonError{Year: year}
	}

	row := common(r)
	for i, name := range sortColumnNames(season) {
		row[name] = sorts[i]
	}
	return row, nil
}

func common(r TeamRankingRecord) RankingRow {
	return RankingRow{
		"team_key":       teamKeyPrefix + strconv.Itoa(r.Team),
		"rank":           r.Rank,
		"played":         r.Played,
		"dqs":            r.DQ,
		RecordColumnName: fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties),
	}
}

// NewRankingsUpdate converts every record for the year, keeping their order.
func NewRankingsUpdate(records []TeamRankingRecord, year int) (RankingsUpdate, error) {
	names, ok := RankingNames(year)
	if !ok {
		return RankingsUpdate{}, &UnsupportedSeasonError{Year: year}
	}

	rows := make([]RankingRow, 0, len(records))
	for _, r := range records {
		row, err := Convert(r, year)
		if err != nil {
			return RankingsUpdate{}, err
		}
		rows = append(rows, row)
	}
	return RankingsUpdate{Breakdowns: names, Rankings: rows}, nil
}

// EventKey builds the TBA event key. Codes that already carry a year are kept.
func EventKey(year int, code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if IsValidEventCode(code) {
		return code
	}
	return strconv.Itoa(year) + code
}
