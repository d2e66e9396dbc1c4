package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFile = errors.New("unsupported file")

// Record is one non-empty data row keyed by header.
type Record struct {
	Line   int // 1-based sheet row; for CSV, the record number
	Values map[string]string
}

type Table struct {
	Header  []string
	Records []Record
}

// Extensions accepted by ReadTable.
var Extensions = []string{".xlsx", ".xls", ".csv"}

// Supported reports whether ReadTable can decode filename.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ReadTable picks a decoder by extension. headerRow is 1-based.
func ReadTable(r io.Reader, filename string, headerRow int) (Table, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
	if err != nil {
		return Table{}, err
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	h := pickHeader(rows, headerRow)
	return Table{Header: h, Records: toRecords(rows, h, headerRow)}, nil
}

// pickHeader takes the header row and names blank cells "Column N".
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// toRecords maps rows below the header by column name, dropping blank rows.
func toRecords(rows [][]string, headers []string, headerRow int) []Record {
	var out []Record
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, name := range headers {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[name] = v
		}
		if !empty {
			out = append(out, Record{Line: r + 1, Values: m})
		}
	}
	return out
}
