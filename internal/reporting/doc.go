// Package reporting renders the output artifacts of the Travelpac pipeline:
// the three charts built from the grouped aggregations, and the ordinary
// least squares model of spend per night.
//
// Charts share one visual theme (muted gridlines, a fixed categorical
// palette, and human-readable axis ticks that render 5000000 as "5m") and
// are written as PNG files into the configured output directory.
//
// The model is a single fit-and-report step: no refinement, no selection.
// Its summary reports the coefficient table, R-squared and the F statistic.
package reporting
