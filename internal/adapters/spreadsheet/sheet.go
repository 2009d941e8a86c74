// Package spreadsheet reads standings workbooks submitted by event
// organizers.
//
// Layout contract: the first cell of the first sheet names the event;
// every following row carries one raw participant name in the first
// column, in finishing order, so data row N is placement N. Blank cells
// keep their position but produce no entry.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one standings row: a placement and the raw name to resolve.
type Entry struct {
	Position int    // 1-indexed placement
	RawName  string // free-text participant name
}

// Standings is the parsed content of one workbook.
type Standings struct {
	EventName string
	Entries   []Entry
}

// ReadFile parses the workbook at path.
func ReadFile(path string) (*Standings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open standings file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a standings workbook from r.
func Read(r io.Reader) (*Standings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 || strings.TrimSpace(rows[0][0]) == "" {
		return nil, ErrNoEventName
	}

	st := &Standings{EventName: strings.TrimSpace(rows[0][0])}
	for i, row := range rows[1:] {
		// Position counts every data row, including skipped blanks,
		// so a gap in the sheet does not shift everyone below it.
		position := i + 1
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		st.Entries = append(st.Entries, Entry{Position: position, RawName: name})
	}
	return st, nil
}
