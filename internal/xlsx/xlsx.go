// Package xlsx imports flash cards from spreadsheet workbooks.
package xlsx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Column layout of the first sheet. Images are comma separated.
const (
	frontColumn = iota
	backColumn
	imagesColumn
	audioColumn
)

// ParseFile opens a workbook from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads the first sheet of a workbook. A first row whose front cell
// reads "front" or "question" is treated as a header. Rows without a front
// are skipped.
func Parse(r io.Reader) ([]domain.Card, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %s: %w", sheets[0], err)
	}

	var cards []domain.Card
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		front := cell(row, frontColumn)
		if front == "" {
			continue
		}
		card := domain.Card{
			Front:    front,
			Back:     cell(row, backColumn),
			AudioRef: cell(row, audioColumn),
		}
		for _, ref := range strings.Split(cell(row, imagesColumn), ",") {
			if ref = strings.TrimSpace(ref); ref != "" {
				card.ImageRefs = append(card.ImageRefs, ref)
			}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func isHeader(row []string) bool {
	switch strings.ToLower(cell(row, frontColumn)) {
	case "front", "question":
		return true
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
