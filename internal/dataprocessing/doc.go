// Package dataprocessing implements the tabular stages of the Travelpac
// report pipeline: loading the source workbook, cleaning the survey rows,
// and computing the grouped aggregations.
//
// # Architecture
//
// The package is organized into three components, run strictly in order:
//
// 1. Loader: reads the Travelpac sheet and extracts typed survey records
// 2. Cleaner: applies the fixed sequence of row filters and derivations
// 3. Aggregator: computes the grouped summaries used by the reporter
//
// Each stage is a function from records to records (or records to summary
// tables): stages never mutate their input, so they can be tested and
// composed in isolation.
//
// # Data flow
//
//	Excel file → LoadWorkbook → SurveyRecords → Clean → cleaned records → Aggregator → summary tables
//
// # Cleaning policy
//
// No imputation is performed anywhere. A row failing a validity predicate
// (missing sex, "D/K" age band, "0" country) is excluded, never corrected.
// An unrecognised quarter label is a schema error, not a drop: the quarter
// ordinal mapping must stay a total bijection over the four known labels,
// and silently dropping such rows would hide upstream schema drift.
//
// # Error handling
//
// All errors are travelpac/internal/errors pipeline errors carrying the
// offending row or column in their context. No stage recovers; the first
// error aborts the run.
package dataprocessing
