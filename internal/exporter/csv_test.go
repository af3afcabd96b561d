package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelpac/internal/dataprocessing"
	"travelpac/pkg/contracts/domain"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportTopCountries(t *testing.T) {
	w := NewCSVWriter(nil, t.TempDir())

	path, err := w.ExportTopCountries([]dataprocessing.CountryVisits{
		{Country: "Spain", TotalVisits: 20},
		{Country: "France", TotalVisits: 15},
	})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Country", "TotalVisits"}, rows[0])
	assert.Equal(t, []string{"Spain", "20"}, rows[1])
	assert.Equal(t, []string{"France", "15"}, rows[2])
}

func TestExportSpendPerNightBySex(t *testing.T) {
	w := NewCSVWriter(nil, t.TempDir())

	path, err := w.ExportSpendPerNightBySex([]dataprocessing.SexSpendStats{
		{Sex: domain.SexFemale, MeanSpendPerNight: 62.5, SampleSize: 4},
	})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Female", "62.5", "4"}, rows[1])
}

func TestExportVisitsByQuarter(t *testing.T) {
	w := NewCSVWriter(nil, t.TempDir())

	path, err := w.ExportVisitsByQuarter([]dataprocessing.QuarterVisits{
		{Quarter: domain.QuarterJanMar, Ordinal: 1, MeanVisits: 3, SampleSize: 2},
		{Quarter: domain.QuarterOctDec, Ordinal: 4, MeanVisits: 8, SampleSize: 1},
	})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Jan-Mar", "1", "3", "2"}, rows[1])
	assert.Equal(t, []string{"Oct-Dec", "4", "8", "1"}, rows[2])
}

func TestExport_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewCSVWriter(nil, base)

	path, err := w.ExportTopCountries(nil)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 1, "header only for an empty table")
}
