package dataprocessing

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "travelpac/internal/errors"
	"travelpac/pkg/contracts/domain"
)

// Column headers expected in the Travelpac sheet. Columns are located by
// name, not position, so extra columns in the source are ignored.
const (
	colYear    = "year"
	colQuarter = "quarter"
	colCountry = "country"
	colUKOS    = "ukos"
	colAge     = "age"
	colSex     = "sex"
	colVisits  = "visits"
	colNights  = "nights"
	colExpend  = "expend"
	colSample  = "sample"
)

var requiredColumns = []string{
	colYear, colQuarter, colCountry, colUKOS, colAge,
	colSex, colVisits, colNights, colExpend, colSample,
}

// headerScanLimit bounds how far down the sheet the header row is searched.
const headerScanLimit = 10

// LoadWorkbook reads the named sheet of a Travelpac workbook and extracts
// one SurveyRecord per data row. The Year and sample columns are verified
// against the schema but not carried into the records.
func LoadWorkbook(path, sheet string) ([]domain.SurveyRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewNotFoundError("input workbook", err).
			WithContext("path", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewSchemaError("sheet not found in workbook", err).
			WithContext("sheet", sheet)
	}

	headerRow, columns, err := locateHeader(rows)
	if err != nil {
		return nil, err
	}

	slog.Debug("located header row",
		slog.String("sheet", sheet),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", len(rows)))

	records := make([]domain.SurveyRecord, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		visits, err := parseMeasure(row, columns[colVisits], i+1, colVisits)
		if err != nil {
			return nil, err
		}
		nights, err := parseMeasure(row, columns[colNights], i+1, colNights)
		if err != nil {
			return nil, err
		}
		expend, err := parseMeasure(row, columns[colExpend], i+1, colExpend)
		if err != nil {
			return nil, err
		}

		records = append(records, domain.SurveyRecord{
			Quarter:     domain.Quarter(cellString(row, columns[colQuarter])),
			Country:     cellString(row, columns[colCountry]),
			Age:         cellString(row, columns[colAge]),
			Sex:         cellString(row, columns[colSex]),
			Origin:      cellString(row, columns[colUKOS]),
			Visits:      visits,
			Nights:      nights,
			Expenditure: expend,
		})
	}

	slog.Info("workbook loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("record_count", len(records)))

	return records, nil
}

// locateHeader finds the row containing every required column header and
// maps column names to their positions. Header matching is case-insensitive
// on the trimmed cell text.
func locateHeader(rows [][]string) (int, map[string]int, error) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		columns := make(map[string]int, len(requiredColumns))
		for j, header := range rows[i] {
			name := strings.ToLower(strings.TrimSpace(header))
			if _, dup := columns[name]; !dup && name != "" {
				columns[name] = j
			}
		}

		var missing []string
		for _, col := range requiredColumns {
			if _, ok := columns[col]; !ok {
				missing = append(missing, col)
			}
		}
		if len(missing) == 0 {
			return i, columns, nil
		}
		// A row with most of the schema present is a header with missing
		// columns, not a data row.
		if len(missing) < len(requiredColumns)/2 {
			return 0, nil, apperrors.NewSchemaError("header row is missing expected columns", nil).
				WithContext("missing", strings.Join(missing, ", ")).
				WithContext("row", i+1)
		}
	}

	return 0, nil, apperrors.NewSchemaError("could not find Travelpac header row", nil)
}

// cellString returns the trimmed cell at col, or "" if the row is short.
func cellString(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseMeasure converts a numeric cell to a Measure. A blank cell is an
// absent measure; a malformed one is a parsing error.
func parseMeasure(row []string, col, rowNum int, column string) (domain.Measure, error) {
	raw := cellString(row, col)
	if raw == "" {
		return domain.None(), nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return domain.None(), apperrors.NewParsingError("malformed numeric cell", err).
			WithContext("row", rowNum).
			WithContext("column", column).
			WithContext("value", raw)
	}
	return domain.Some(value), nil
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
