package dataprocessing

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	apperrors "travelpac/internal/errors"
	"travelpac/pkg/contracts/domain"
)

// Aggregator computes the grouped summaries over cleaned survey records.
// The three aggregations are independent; each filters to the rows with the
// measures it needs, groups by a categorical key, and reduces.
type Aggregator struct {
	logger           *slog.Logger
	topCountryLimit  int
	spendPerNightCap float64
}

// AggregatorConfig holds the analysis parameters.
type AggregatorConfig struct {
	// TopCountryLimit is the number of countries kept in the visits ranking.
	TopCountryLimit int
	// SpendPerNightCap bounds the per-night plotting series; observations at
	// or above the cap are excluded as chart outliers.
	SpendPerNightCap float64
}

// DefaultAggregatorConfig returns the parameters used by the standard report.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		TopCountryLimit:  10,
		SpendPerNightCap: 500,
	}
}

// NewAggregator creates an aggregator with the given configuration.
func NewAggregator(logger *slog.Logger, config AggregatorConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopCountryLimit <= 0 {
		config.TopCountryLimit = 10
	}
	if config.SpendPerNightCap <= 0 {
		config.SpendPerNightCap = 500
	}

	return &Aggregator{
		logger:           logger,
		topCountryLimit:  config.TopCountryLimit,
		spendPerNightCap: config.SpendPerNightCap,
	}
}

// CountryVisits is one row of the destination ranking.
type CountryVisits struct {
	Country     string  `json:"country" csv:"Country"`
	TotalVisits float64 `json:"total_visits" csv:"TotalVisits"`
}

// TopCountriesByVisits ranks destination countries by total visits across
// UK-resident records, descending, truncated to the configured limit. Ties
// are broken by country name so the ranking is deterministic.
func (a *Aggregator) TopCountriesByVisits(records []domain.SurveyRecord) []CountryVisits {
	totals := make(map[string]float64)
	for _, r := range records {
		if !r.UKResident || !r.Visits.Valid {
			continue
		}
		totals[r.Country] += r.Visits.Value
	}

	ranking := make([]CountryVisits, 0, len(totals))
	for country, total := range totals {
		ranking = append(ranking, CountryVisits{Country: country, TotalVisits: total})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalVisits != ranking[j].TotalVisits {
			return ranking[i].TotalVisits > ranking[j].TotalVisits
		}
		return ranking[i].Country < ranking[j].Country
	})

	if len(ranking) > a.topCountryLimit {
		ranking = ranking[:a.topCountryLimit]
	}

	a.logger.Debug("ranked destination countries",
		slog.Int("country_count", len(totals)),
		slog.Int("kept", len(ranking)))

	return ranking
}

// PerNightRow is one observation of the spend-per-night derivation together
// with the categorical fields used by the box plot and the regression.
type PerNightRow struct {
	Sex           string
	Quarter       domain.Quarter
	Age           string
	UKResident    bool
	SpendPerNight float64
}

// PerNightDataset derives spend-per-night for every record where both
// expenditure and nights are present and nights is positive. Rows with zero
// or missing nights never enter a per-night aggregation.
func (a *Aggregator) PerNightDataset(records []domain.SurveyRecord) ([]PerNightRow, error) {
	rows := make([]PerNightRow, 0, len(records))
	for i, r := range records {
		if !r.Expenditure.Valid || !r.Nights.Valid || r.Nights.Value <= 0 {
			continue
		}

		perNight, err := spendPerNight(r.Expenditure.Value, r.Nights.Value)
		if err != nil {
			return nil, err.WithContext("record", i+1)
		}

		rows = append(rows, PerNightRow{
			Sex:           r.Sex,
			Quarter:       r.Quarter,
			Age:           r.Age,
			UKResident:    r.UKResident,
			SpendPerNight: perNight,
		})
	}

	a.logger.Debug("derived spend-per-night dataset",
		slog.Int("input_count", len(records)),
		slog.Int("row_count", len(rows)))

	return rows, nil
}

// spendPerNight computes expenditure divided by nights. The caller filters
// to positive nights; the zero check stays so an undefined division can
// never slip through as +Inf.
func spendPerNight(expenditure, nights float64) (float64, *apperrors.PipelineError) {
	if nights == 0 {
		return 0, apperrors.NewComputationError("spend per night is undefined for zero nights")
	}
	return expenditure / nights, nil
}

// SexSpendStats is the mean spend-per-night for one sex category.
type SexSpendStats struct {
	Sex               string  `json:"sex" csv:"Sex"`
	MeanSpendPerNight float64 `json:"mean_spend_per_night" csv:"MeanSpendPerNight"`
	SampleSize        int     `json:"sample_size" csv:"SampleSize"`
}

// SpendPerNightBySex computes the mean spend-per-night for each sex category
// over the full (uncapped) dataset, sorted by category name.
func (a *Aggregator) SpendPerNightBySex(rows []PerNightRow) []SexSpendStats {
	groups := make(map[string][]float64)
	for _, row := range rows {
		groups[row.Sex] = append(groups[row.Sex], row.SpendPerNight)
	}

	stats := make([]SexSpendStats, 0, len(groups))
	for sex, values := range groups {
		stats = append(stats, SexSpendStats{
			Sex:               sex,
			MeanSpendPerNight: stat.Mean(values, nil),
			SampleSize:        len(values),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Sex < stats[j].Sex })

	return stats
}

// SpendPerNightSeries restricts the per-night dataset to the two binary sex
// categories and drops observations at or above the outlier cap. This is the
// series plotted by the box chart; the means above stay uncapped.
func (a *Aggregator) SpendPerNightSeries(rows []PerNightRow) []PerNightRow {
	series := make([]PerNightRow, 0, len(rows))
	for _, row := range rows {
		if row.Sex != domain.SexMale && row.Sex != domain.SexFemale {
			continue
		}
		if row.SpendPerNight >= a.spendPerNightCap {
			continue
		}
		series = append(series, row)
	}
	return series
}

// QuarterVisits is the mean visit count for one survey quarter.
type QuarterVisits struct {
	Quarter    domain.Quarter `json:"quarter" csv:"Quarter"`
	Ordinal    int            `json:"ordinal" csv:"Ordinal"`
	MeanVisits float64        `json:"mean_visits" csv:"MeanVisits"`
	SampleSize int            `json:"sample_size" csv:"SampleSize"`
}

// VisitsByQuarter computes the mean visit count per quarter, ordered by the
// chronological quarter ordinal rather than alphabetically. The cleaner
// guarantees valid quarter labels; an unknown label here is a schema error.
func (a *Aggregator) VisitsByQuarter(records []domain.SurveyRecord) ([]QuarterVisits, error) {
	groups := make(map[domain.Quarter][]float64)
	for i, r := range records {
		if !r.Visits.Valid {
			continue
		}
		if !r.Quarter.Valid() {
			return nil, apperrors.NewSchemaError("unrecognized quarter label", nil).
				WithContext("quarter", string(r.Quarter)).
				WithContext("record", i+1)
		}
		groups[r.Quarter] = append(groups[r.Quarter], r.Visits.Value)
	}

	result := make([]QuarterVisits, 0, len(groups))
	for quarter, values := range groups {
		ordinal, _ := quarter.Ordinal()
		result = append(result, QuarterVisits{
			Quarter:    quarter,
			Ordinal:    ordinal,
			MeanVisits: stat.Mean(values, nil),
			SampleSize: len(values),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Ordinal < result[j].Ordinal })

	return result, nil
}
