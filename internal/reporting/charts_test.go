package reporting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelpac/internal/dataprocessing"
	"travelpac/pkg/contracts/domain"
)

func assertArtifact(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestRenderTopCountries(t *testing.T) {
	renderer := NewChartRenderer(nil, t.TempDir())

	path, err := renderer.RenderTopCountries([]dataprocessing.CountryVisits{
		{Country: "Spain", TotalVisits: 5000000},
		{Country: "France", TotalVisits: 3200000},
		{Country: "Italy", TotalVisits: 1100000},
	})
	require.NoError(t, err)
	assertArtifact(t, path)
}

func TestRenderTopCountries_Empty(t *testing.T) {
	renderer := NewChartRenderer(nil, t.TempDir())

	_, err := renderer.RenderTopCountries(nil)
	assert.Error(t, err)
}

func TestRenderSpendPerNightBySex(t *testing.T) {
	renderer := NewChartRenderer(nil, t.TempDir())

	series := []dataprocessing.PerNightRow{
		{Sex: domain.SexFemale, SpendPerNight: 40},
		{Sex: domain.SexFemale, SpendPerNight: 75},
		{Sex: domain.SexFemale, SpendPerNight: 120},
		{Sex: domain.SexMale, SpendPerNight: 55},
		{Sex: domain.SexMale, SpendPerNight: 90},
		{Sex: domain.SexMale, SpendPerNight: 260},
	}

	path, err := renderer.RenderSpendPerNightBySex(series)
	require.NoError(t, err)
	assertArtifact(t, path)
}

func TestRenderSpendPerNightBySex_Empty(t *testing.T) {
	renderer := NewChartRenderer(nil, t.TempDir())

	_, err := renderer.RenderSpendPerNightBySex(nil)
	assert.Error(t, err)
}

func TestRenderVisitsByQuarter(t *testing.T) {
	renderer := NewChartRenderer(nil, t.TempDir())

	path, err := renderer.RenderVisitsByQuarter([]dataprocessing.QuarterVisits{
		{Quarter: domain.QuarterJanMar, Ordinal: 1, MeanVisits: 2.5},
		{Quarter: domain.QuarterAprJun, Ordinal: 2, MeanVisits: 4.1},
		{Quarter: domain.QuarterJulSep, Ordinal: 3, MeanVisits: 6.8},
		{Quarter: domain.QuarterOctDec, Ordinal: 4, MeanVisits: 3.3},
	})
	require.NoError(t, err)
	assertArtifact(t, path)
}

func TestHumanFormat(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 5000000, want: "5m"},
		{value: 2500000, want: "2.5m"},
		{value: 5000, want: "5k"},
		{value: 1250, want: "1.25k"},
		{value: 500, want: "500"},
		{value: 0, want: "0"},
		{value: -2000000, want: "-2m"},
		{value: 2.5, want: "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, humanFormat(tt.value))
		})
	}
}
