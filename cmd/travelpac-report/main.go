// Command travelpac-report runs the Travelpac analysis pipeline: it loads
// the survey workbook, cleans it, computes the grouped aggregations, renders
// the charts, fits the spend-per-night model, and writes every artifact into
// the output directory. Any failure at any stage aborts the run.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"travelpac/internal/config"
	"travelpac/internal/dataprocessing"
	apperrors "travelpac/internal/errors"
	"travelpac/internal/exporter"
	"travelpac/internal/infrastructure"
	"travelpac/internal/reporting"
	"travelpac/pkg/contracts"
)

func main() {
	in := flag.String("in", "", "path to the Travelpac workbook (overrides config)")
	sheet := flag.String("sheet", "", "sheet name to load (overrides config)")
	out := flag.String("out", "", "output directory for artifacts (overrides config)")
	configFile := flag.String("config", config.DefaultConfigFile, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadWithOverrides(*configFile, config.Overrides{
		WorkbookPath: *in,
		SheetName:    *sheet,
		OutputDir:    *out,
	})
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.InitializeLogger(cfg.Logging)

	if err := run(logger, cfg); err != nil {
		logger.Error("report run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config) error {
	logger.Info("starting Travelpac report",
		slog.String("version", contracts.VersionString()),
		slog.String("workbook", cfg.Input.WorkbookPath),
		slog.String("sheet", cfg.Input.SheetName),
		slog.String("output_dir", cfg.Output.Dir))

	records, err := dataprocessing.LoadWorkbook(cfg.Input.WorkbookPath, cfg.Input.SheetName)
	if err != nil {
		return err
	}

	cleaned, err := dataprocessing.Clean(records)
	if err != nil {
		return err
	}
	logger.Info("survey records cleaned",
		slog.Int("loaded", len(records)),
		slog.Int("cleaned", len(cleaned)))

	aggregator := dataprocessing.NewAggregator(logger, dataprocessing.AggregatorConfig{
		TopCountryLimit:  cfg.Analysis.TopCountryLimit,
		SpendPerNightCap: cfg.Analysis.SpendPerNightCap,
	})

	ranking := aggregator.TopCountriesByVisits(cleaned)
	perNight, err := aggregator.PerNightDataset(cleaned)
	if err != nil {
		return err
	}
	bySex := aggregator.SpendPerNightBySex(perNight)
	series := aggregator.SpendPerNightSeries(perNight)
	byQuarter, err := aggregator.VisitsByQuarter(cleaned)
	if err != nil {
		return err
	}

	renderer := reporting.NewChartRenderer(logger, cfg.Output.Dir)
	if _, err := renderer.RenderTopCountries(ranking); err != nil {
		return err
	}
	if _, err := renderer.RenderSpendPerNightBySex(series); err != nil {
		return err
	}
	if _, err := renderer.RenderVisitsByQuarter(byQuarter); err != nil {
		return err
	}

	csvWriter := exporter.NewCSVWriter(logger, cfg.Output.Dir)
	if _, err := csvWriter.ExportTopCountries(ranking); err != nil {
		return err
	}
	if _, err := csvWriter.ExportSpendPerNightBySex(bySex); err != nil {
		return err
	}
	if _, err := csvWriter.ExportVisitsByQuarter(byQuarter); err != nil {
		return err
	}

	model, err := reporting.FitSpendPerNight(perNight)
	if err != nil {
		return err
	}
	summaryPath := filepath.Join(cfg.Output.Dir, reporting.ModelSummaryFile)
	if err := os.WriteFile(summaryPath, []byte(model.Summary()), 0644); err != nil {
		return apperrors.NewStorageError("failed to write model summary", err).
			WithContext("path", summaryPath)
	}
	logger.Info("model fitted",
		slog.Int("n", model.N),
		slog.Float64("r2", model.R2),
		slog.Float64("f_stat", model.FStat),
		slog.String("summary", summaryPath))

	logger.Info("report complete", slog.String("output_dir", cfg.Output.Dir))
	return nil
}
