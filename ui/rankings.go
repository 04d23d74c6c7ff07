package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Nydauron/fms2tba/tba"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func styleFunc(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}

var leadingColumns = []struct {
	header string
	key    string
}{
	{"Rank", "rank"},
	{"Team", "team_key"},
	{"Played", "played"},
	{"DQ", "dqs"},
}

// RenderRankings draws the payload as a table. Columns follow the payload's
// breakdowns, after rank, team, played and DQ.
func RenderRankings(payload tba.RankingsUpdate) string {
	headers := make([]string, 0, len(leadingColumns)+len(payload.Breakdowns))
	keys := make([]string, 0, cap(headers))
	for _, c := range leadingColumns {
		headers = append(headers, c.header)
		keys = append(keys, c.key)
	}
	headers = append(headers, payload.Breakdowns...)
	keys = append(keys, payload.Breakdowns...)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(styleFunc).
		Headers(headers...)

	for _, r := range payload.Rankings {
		cells := make([]string, len(keys))
		for i, k := range keys {
			cells[i] = formatCell(r[k])
		}
		t.Row(cells...)
	}
	return t.Render()
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// RenderSeasons lists every registered season with its columns.
func RenderSeasons() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(styleFunc).
		Headers("Year", "Columns")
	for _, year := range tba.Seasons() {
		names, _ := tba.RankingNames(year)
		t.Row(strconv.Itoa(year), strings.Join(names, ", "))
	}
	return t.Render()
}
