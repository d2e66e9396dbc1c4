package fileio

import (
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX returns the first sheet as rows of cell text.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetRows(f.GetSheetName(0))
}
