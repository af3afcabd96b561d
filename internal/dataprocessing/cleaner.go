package dataprocessing

import (
	"log/slog"

	apperrors "travelpac/internal/errors"
	"travelpac/pkg/contracts/domain"
)

// Clean applies the fixed cleaning sequence to loaded survey records and
// returns a new slice; the input is never modified. Steps, in order:
//
//  1. drop rows with missing sex
//  2. drop rows where the age band is the "D/K" sentinel
//  3. drop rows where the country is the "0" sentinel
//  4. derive the UK-resident flag from the residency-origin field
//
// Rows surviving the filters must carry one of the four known quarter
// labels; any other label is a schema error rather than a drop, so schema
// drift in the source surfaces instead of silently shrinking the table.
func Clean(records []domain.SurveyRecord) ([]domain.SurveyRecord, error) {
	cleaned := make([]domain.SurveyRecord, 0, len(records))
	dropped := 0

	for i, r := range records {
		if r.Sex == "" || r.Age == domain.AgeDontKnow || r.Country == domain.CountryInvalid {
			dropped++
			continue
		}

		if !r.Quarter.Valid() {
			return nil, apperrors.NewSchemaError("unrecognized quarter label", nil).
				WithContext("quarter", string(r.Quarter)).
				WithContext("record", i+1)
		}

		out := r
		out.UKResident = r.IsUKResident()
		cleaned = append(cleaned, out)
	}

	slog.Debug("cleaning complete",
		slog.Int("input_count", len(records)),
		slog.Int("dropped_count", dropped),
		slog.Int("cleaned_count", len(cleaned)))

	return cleaned, nil
}
