package reporting

import (
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"travelpac/internal/dataprocessing"
	apperrors "travelpac/internal/errors"
)

// Chart artifact file names, relative to the output directory.
const (
	TopCountriesChart    = "top_countries.png"
	SpendPerNightChart   = "spend_per_night_by_sex.png"
	VisitsByQuarterChart = "visits_by_quarter.png"
)

// Theme is the shared visual style of all rendered charts.
type Theme struct {
	Palette   []color.RGBA
	Grid      color.RGBA
	TitleSize vg.Length
	BarWidth  vg.Length
	BoxWidth  vg.Length
}

// DefaultTheme returns the standard report styling: muted gridlines and a
// small categorical palette.
func DefaultTheme() Theme {
	return Theme{
		Palette: []color.RGBA{
			{R: 70, G: 130, B: 180, A: 255},
			{R: 205, G: 92, B: 92, A: 255},
			{R: 60, G: 179, B: 113, A: 255},
		},
		Grid:      color.RGBA{R: 220, G: 220, B: 220, A: 255},
		TitleSize: vg.Points(14),
		BarWidth:  vg.Points(20),
		BoxWidth:  vg.Points(40),
	}
}

// ChartRenderer renders the aggregation tables as PNG charts.
type ChartRenderer struct {
	logger    *slog.Logger
	outputDir string
	theme     Theme
}

// NewChartRenderer creates a renderer writing into outputDir.
func NewChartRenderer(logger *slog.Logger, outputDir string) *ChartRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartRenderer{
		logger:    logger,
		outputDir: outputDir,
		theme:     DefaultTheme(),
	}
}

// RenderTopCountries renders the destination ranking as a bar chart and
// returns the artifact path.
func (r *ChartRenderer) RenderTopCountries(ranking []dataprocessing.CountryVisits) (string, error) {
	if len(ranking) == 0 {
		return "", apperrors.NewComputationError("no countries to plot")
	}

	values := make(plotter.Values, len(ranking))
	labels := make([]string, len(ranking))
	for i, cv := range ranking {
		values[i] = cv.TotalVisits
		labels[i] = cv.Country
	}

	p := plot.New()
	p.Title.Text = "Top destination countries by visits (UK residents)"
	p.Title.TextStyle.Font.Size = r.theme.TitleSize
	p.X.Label.Text = "Country"
	p.Y.Label.Text = "Total visits"
	p.Y.Tick.Marker = humanTicks{}

	bars, err := plotter.NewBarChart(values, r.theme.BarWidth)
	if err != nil {
		return "", apperrors.NewComputationError("failed to build bar chart").WithContext("cause", err.Error())
	}
	bars.Color = r.theme.Palette[0]
	bars.LineStyle.Width = vg.Length(0)

	p.Add(r.grid(), bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	return r.save(p, 10*vg.Inch, 6*vg.Inch, TopCountriesChart)
}

// RenderSpendPerNightBySex renders the capped per-night series as one box
// plot per sex category and returns the artifact path.
func (r *ChartRenderer) RenderSpendPerNightBySex(series []dataprocessing.PerNightRow) (string, error) {
	groups := make(map[string]plotter.Values)
	for _, row := range series {
		groups[row.Sex] = append(groups[row.Sex], row.SpendPerNight)
	}
	if len(groups) == 0 {
		return "", apperrors.NewComputationError("no spend-per-night observations to plot")
	}

	sexes := make([]string, 0, len(groups))
	for sex := range groups {
		sexes = append(sexes, sex)
	}
	sort.Strings(sexes)

	p := plot.New()
	p.Title.Text = "Spend per night by sex"
	p.Title.TextStyle.Font.Size = r.theme.TitleSize
	p.X.Label.Text = "Sex"
	p.Y.Label.Text = "Spend per night"
	p.Y.Tick.Marker = humanTicks{}
	p.Add(r.grid())

	for i, sex := range sexes {
		box, err := plotter.NewBoxPlot(r.theme.BoxWidth, float64(i), groups[sex])
		if err != nil {
			return "", apperrors.NewComputationError("failed to build box plot").
				WithContext("sex", sex).
				WithContext("cause", err.Error())
		}
		box.FillColor = r.theme.Palette[i%len(r.theme.Palette)]
		p.Add(box)
	}
	p.NominalX(sexes...)

	return r.save(p, 6*vg.Inch, 6*vg.Inch, SpendPerNightChart)
}

// RenderVisitsByQuarter renders the quarterly means as a column chart in the
// chronological order of the input and returns the artifact path.
func (r *ChartRenderer) RenderVisitsByQuarter(result []dataprocessing.QuarterVisits) (string, error) {
	if len(result) == 0 {
		return "", apperrors.NewComputationError("no quarters to plot")
	}

	values := make(plotter.Values, len(result))
	labels := make([]string, len(result))
	for i, q := range result {
		values[i] = q.MeanVisits
		labels[i] = string(q.Quarter)
	}

	p := plot.New()
	p.Title.Text = "Mean visits by quarter"
	p.Title.TextStyle.Font.Size = r.theme.TitleSize
	p.X.Label.Text = "Quarter"
	p.Y.Label.Text = "Mean visits"
	p.Y.Tick.Marker = humanTicks{}

	bars, err := plotter.NewBarChart(values, r.theme.BarWidth)
	if err != nil {
		return "", apperrors.NewComputationError("failed to build column chart").WithContext("cause", err.Error())
	}
	bars.Color = r.theme.Palette[2]
	bars.LineStyle.Width = vg.Length(0)

	p.Add(r.grid(), bars)
	p.NominalX(labels...)

	return r.save(p, 8*vg.Inch, 6*vg.Inch, VisitsByQuarterChart)
}

// grid returns gridlines in the theme's muted color.
func (r *ChartRenderer) grid() *plotter.Grid {
	grid := plotter.NewGrid()
	grid.Vertical.Color = r.theme.Grid
	grid.Horizontal.Color = r.theme.Grid
	return grid
}

// save writes the plot into the output directory.
func (r *ChartRenderer) save(p *plot.Plot, w, h vg.Length, name string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err).
			WithContext("dir", r.outputDir)
	}

	path := filepath.Join(r.outputDir, name)
	if err := p.Save(w, h, path); err != nil {
		return "", apperrors.NewStorageError("failed to save chart", err).
			WithContext("path", path)
	}

	r.logger.Info("chart rendered", slog.String("path", path))
	return path, nil
}

// humanTicks formats axis tick labels with metric suffixes, rendering
// 5000000 as "5m" and 5000 as "5k".
type humanTicks struct{}

// Ticks implements plot.Ticker.
func (humanTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, tick := range ticks {
		if tick.Label == "" {
			continue
		}
		ticks[i].Label = humanFormat(tick.Value)
	}
	return ticks
}

// humanFormat renders a tick value with an m/k suffix where it shortens the
// label.
func humanFormat(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', -1, 64) + "m"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', -1, 64) + "k"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
