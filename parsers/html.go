package parsers

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var errNoTable = errors.New("no ranking table found in document")

// ParseHTML reads the first table of an FMS ranking report page. Header cells
// come from the first row; the remaining rows are team records.
func ParseHTML(r io.Reader) (*Table, error) {
	z := html.NewTokenizer(r)

	isTable := false
	tableDone := false
	isTableRow := false
	isTableCell := false

	var rows [][]string
	var bufferRow []string
	var bufferCell strings.Builder
	for !tableDone {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			tableDone = true
		case html.StartTagToken:
			t := z.Token()
			switch t.Data {
			case "table":
				isTable = true
			case "tr":
				isTableRow = isTable
				bufferRow = []string{}
			case "th", "td":
				isTableCell = isTableRow
				bufferCell.Reset()
			case "br":
				if isTableCell {
					bufferCell.WriteString(" ")
				}
			}
		case html.SelfClosingTagToken:
			if t := z.Token(); t.Data == "br" && isTableCell {
				bufferCell.WriteString(" ")
			}
		case html.TextToken:
			if isTableCell {
				bufferCell.Write(z.Text())
			}
		case html.EndTagToken:
			t := z.Token()
			switch t.Data {
			case "th", "td":
				if isTableCell {
					bufferRow = append(bufferRow, strings.Join(strings.Fields(bufferCell.String()), " "))
				}
				isTableCell = false
			case "tr":
				if isTableRow && !isBlankRow(bufferRow) {
					rows = append(rows, bufferRow)
				}
				isTableRow = false
			case "table":
				if isTable {
					tableDone = true
				}
			}
		}
	}

	if len(rows) == 0 {
		return nil, errNoTable
	}
	return buildTable(rows[0], rows[1:])
}
