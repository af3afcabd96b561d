// Package exporter writes the aggregation tables of the Travelpac report as
// CSV files next to the chart artifacts.
package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"travelpac/internal/dataprocessing"
	apperrors "travelpac/internal/errors"
)

// Aggregation table file names, relative to the output directory.
const (
	TopCountriesCSV    = "top_countries.csv"
	SpendPerNightCSV   = "spend_per_night_by_sex.csv"
	VisitsByQuarterCSV = "visits_by_quarter.csv"
)

// CSVWriter exports aggregation tables into a base directory.
type CSVWriter struct {
	logger  *slog.Logger
	baseDir string
}

// NewCSVWriter creates a CSV writer targeting baseDir.
func NewCSVWriter(logger *slog.Logger, baseDir string) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger, baseDir: baseDir}
}

// ExportTopCountries writes the destination ranking and returns the path.
func (w *CSVWriter) ExportTopCountries(ranking []dataprocessing.CountryVisits) (string, error) {
	records := make([][]string, len(ranking))
	for i, cv := range ranking {
		records[i] = []string{cv.Country, formatFloat(cv.TotalVisits)}
	}
	return w.write(TopCountriesCSV, []string{"Country", "TotalVisits"}, records)
}

// ExportSpendPerNightBySex writes the per-sex means and returns the path.
func (w *CSVWriter) ExportSpendPerNightBySex(stats []dataprocessing.SexSpendStats) (string, error) {
	records := make([][]string, len(stats))
	for i, s := range stats {
		records[i] = []string{s.Sex, formatFloat(s.MeanSpendPerNight), strconv.Itoa(s.SampleSize)}
	}
	return w.write(SpendPerNightCSV, []string{"Sex", "MeanSpendPerNight", "SampleSize"}, records)
}

// ExportVisitsByQuarter writes the quarterly means and returns the path.
func (w *CSVWriter) ExportVisitsByQuarter(result []dataprocessing.QuarterVisits) (string, error) {
	records := make([][]string, len(result))
	for i, q := range result {
		records[i] = []string{
			string(q.Quarter),
			strconv.Itoa(q.Ordinal),
			formatFloat(q.MeanVisits),
			strconv.Itoa(q.SampleSize),
		}
	}
	return w.write(VisitsByQuarterCSV, []string{"Quarter", "Ordinal", "MeanVisits", "SampleSize"}, records)
}

// write creates the CSV file with a header row and the given records.
func (w *CSVWriter) write(name string, headers []string, records [][]string) (string, error) {
	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err).
			WithContext("dir", w.baseDir)
	}

	path := filepath.Join(w.baseDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create CSV file", err).
			WithContext("path", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return "", apperrors.NewStorageError("failed to write CSV header row", err).
			WithContext("path", path)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return "", apperrors.NewStorageError("failed to write CSV data row", err).
				WithContext("path", path)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", apperrors.NewStorageError("failed to flush CSV file", err).
			WithContext("path", path)
	}

	w.logger.Info("aggregation exported",
		slog.String("path", path),
		slog.Int("row_count", len(records)))

	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
