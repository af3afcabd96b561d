package dataprocessing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "travelpac/internal/errors"
	"travelpac/pkg/contracts/domain"
)

var travelpacHeaders = []interface{}{
	"Year", "quarter", "country", "ukos", "Age", "Sex", "visits", "nights", "expend", "sample",
}

// writeWorkbook creates a workbook with the given sheet, header row and data
// rows, and returns its path.
func writeWorkbook(t *testing.T, sheet string, headers []interface{}, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headers))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "travelpac.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := writeWorkbook(t, "Travelpac", travelpacHeaders, [][]interface{}{
		{2019, "Jan-Mar", "France", "UK residents", "25-34", "Male", 10, 7, 450.5, 3},
		{2019, "Oct-Dec", "Spain", "Overseas residents", "35-44", "Female", 20, nil, 120, 5},
	})

	records, err := LoadWorkbook(path, "Travelpac")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, domain.QuarterJanMar, first.Quarter)
	assert.Equal(t, "France", first.Country)
	assert.Equal(t, "25-34", first.Age)
	assert.Equal(t, "Male", first.Sex)
	assert.Equal(t, "UK residents", first.Origin)
	assert.Equal(t, domain.Some(10), first.Visits)
	assert.Equal(t, domain.Some(7), first.Nights)
	assert.Equal(t, domain.Some(450.5), first.Expenditure)
	// The derived flag is the cleaner's job, not the loader's.
	assert.False(t, first.UKResident)

	second := records[1]
	assert.Equal(t, domain.QuarterOctDec, second.Quarter)
	assert.False(t, second.Nights.Valid, "blank nights cell loads as absent, not zero")
}

func TestLoadWorkbook_FileMissing(t *testing.T) {
	_, err := LoadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"), "Travelpac")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestLoadWorkbook_SheetMissing(t *testing.T) {
	path := writeWorkbook(t, "Travelpac", travelpacHeaders, nil)

	_, err := LoadWorkbook(path, "NoSuchSheet")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
}

func TestLoadWorkbook_MissingColumn(t *testing.T) {
	headers := []interface{}{
		"Year", "quarter", "country", "ukos", "Age", "Sex", "nights", "expend", "sample",
	}
	path := writeWorkbook(t, "Travelpac", headers, nil)

	_, err := LoadWorkbook(path, "Travelpac")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
	assert.Contains(t, err.Error(), "missing expected columns")
}

func TestLoadWorkbook_HeaderNotFound(t *testing.T) {
	headers := []interface{}{"alpha", "beta", "gamma"}
	path := writeWorkbook(t, "Travelpac", headers, nil)

	_, err := LoadWorkbook(path, "Travelpac")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
}

func TestLoadWorkbook_MalformedNumericCell(t *testing.T) {
	path := writeWorkbook(t, "Travelpac", travelpacHeaders, [][]interface{}{
		{2019, "Jan-Mar", "France", "UK residents", "25-34", "Male", "ten", 7, 450.5, 3},
	})

	_, err := LoadWorkbook(path, "Travelpac")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindParsing))
}

func TestLoadWorkbook_SkipsEmptyRows(t *testing.T) {
	path := writeWorkbook(t, "Travelpac", travelpacHeaders, [][]interface{}{
		{nil, nil, nil, nil, nil, nil, nil, nil, nil, nil},
		{2019, "Apr-Jun", "Italy", "UK residents", "45-54", "Female", 5, 3, 200, 2},
	})

	records, err := LoadWorkbook(path, "Travelpac")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Italy", records[0].Country)
}

func TestLoadWorkbook_ThousandsSeparators(t *testing.T) {
	path := writeWorkbook(t, "Travelpac", travelpacHeaders, [][]interface{}{
		{2019, "Jul-Sep", "USA", "UK residents", "25-34", "Male", "1,250", 14, "5,000,000", 4},
	})

	records, err := LoadWorkbook(path, "Travelpac")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1250.0, records[0].Visits.Value)
	assert.Equal(t, 5000000.0, records[0].Expenditure.Value)
}
