package parsers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nydauron/fms2tba/tba"
)

var numberRegex = regexp.MustCompile(`[0-9]+`)

var ErrMissingColumn = errors.New("missing required column")

const maxSortColumns = 5

type Table struct {
	// Sort column headers as they appear in the report
	SortColumns []string
	Records     []tba.TeamRankingRecord
}

type CellError struct {
	Row    int
	Column string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

type columnKind int

const (
	sortCol columnKind = iota
	rankCol
	teamCol
	recordCol
	dqCol
	playedCol
)

var knownColumns = map[string]columnKind{
	"rank":           rankCol,
	"team":           teamCol,
	"w-l-t":          recordCol,
	"wlt":            recordCol,
	"record (w-l-t)": recordCol,
	"dq":             dqCol,
	"dqs":            dqCol,
	"played":         playedCol,
	"matches played": playedCol,
}

type layout struct {
	headers []string
	kinds   []columnKind
	// index into Sort1..Sort5 for sort columns, -1 otherwise
	sortIdx []int
}

func newLayout(headers []string) (*layout, error) {
	l := &layout{
		headers: make([]string, len(headers)),
		kinds:   make([]columnKind, len(headers)),
		sortIdx: make([]int, len(headers)),
	}
	hasRank, hasTeam := false, false
	sorts := 0
	for i, h := range headers {
		h = strings.TrimSpace(h)
		l.headers[i] = h
		l.sortIdx[i] = -1
		kind, ok := knownColumns[strings.ToLower(h)]
		if !ok {
			if sorts < maxSortColumns {
				l.sortIdx[i] = sorts
			}
			sorts++
		}
		l.kinds[i] = kind
		hasRank = hasRank || kind == rankCol
		hasTeam = hasTeam || kind == teamCol
	}
	if !hasRank {
		return nil, fmt.Errorf("%w: Rank", ErrMissingColumn)
	}
	if !hasTeam {
		return nil, fmt.Errorf("%w: Team", ErrMissingColumn)
	}
	return l, nil
}

func (l *layout) sortColumns() []string {
	cols := []string{}
	for i, idx := range l.sortIdx {
		if idx >= 0 {
			cols = append(cols, l.headers[i])
		}
	}
	return cols
}

// record builds a ranking record from one row of cells. rowNum is only used
// for error reporting.
func (l *layout) record(rowNum int, cells []string) (tba.TeamRankingRecord, error) {
	r := tba.TeamRankingRecord{}
	if len(cells) != len(l.headers) {
		return r, fmt.Errorf("row %d has %d cells, expected %d", rowNum, len(cells), len(l.headers))
	}
	sorts := [maxSortColumns]*float64{&r.Sort1, &r.Sort2, &r.Sort3, &r.Sort4, &r.Sort5}
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		var err error
		switch l.kinds[i] {
		case rankCol:
			r.Rank, err = strconv.Atoi(cell)
		case teamCol:
			r.Team, err = strconv.Atoi(numberRegex.FindString(cell))
		case recordCol:
			r.Wins, r.Losses, r.Ties, err = parseRecord(cell)
		case dqCol:
			r.DQ, err = strconv.Atoi(cell)
		case playedCol:
			r.Played, err = strconv.Atoi(cell)
		default:
			if l.sortIdx[i] < 0 {
				continue
			}
			*sorts[l.sortIdx[i]], err = strconv.ParseFloat(cell, 64)
		}
		if err != nil {
			return r, &CellError{Row: rowNum, Column: l.headers[i], Err: err}
		}
	}
	return r, nil
}

// parseRecord splits a "W-L-T" cell
func parseRecord(cell string) (wins, losses, ties int, err error) {
	parts := strings.Split(cell, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("record %q is not in W-L-T form", cell)
	}
	counts := [3]int{}
	for i, p := range parts {
		counts[i], err = strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, err
		}
	}
	return counts[0], counts[1], counts[2], nil
}

func buildTable(headers []string, rows [][]string) (*Table, error) {
	l, err := newLayout(headers)
	if err != nil {
		return nil, err
	}
	table := Table{SortColumns: l.sortColumns(), Records: make([]tba.TeamRankingRecord, 0, len(rows))}
	for i, row := range rows {
		r, err := l.record(i+1, row)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, r)
	}
	return &table, nil
}
