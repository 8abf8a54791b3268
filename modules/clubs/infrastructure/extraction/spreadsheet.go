package extraction

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
)

// SpreadsheetExtractor reads names from the first sheet of an xlsx workbook.
type SpreadsheetExtractor struct{}

func NewSpreadsheetExtractor() *SpreadsheetExtractor {
	return &SpreadsheetExtractor{}
}

func (e *SpreadsheetExtractor) Extract(_ context.Context, doc Document) ([]reconcile.RawName, error) {
	f, err := excelize.OpenFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrUnreadable, sheet, err)
	}
	return namesFromRows(rows), nil
}
