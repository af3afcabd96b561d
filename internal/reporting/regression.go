package reporting

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"travelpac/internal/dataprocessing"
	apperrors "travelpac/internal/errors"
)

// ModelSummaryFile is the textual model summary artifact name.
const ModelSummaryFile = "spend_model_summary.txt"

// ModelTerm is one estimated coefficient of the fitted model.
type ModelTerm struct {
	Name        string
	Coefficient float64
	StdErr      float64
	TStat       float64
}

// ModelResult holds the single ordinary least squares fit of spend per
// night on the survey categoricals.
type ModelResult struct {
	Terms      []ModelTerm
	N          int
	R2         float64
	AdjR2      float64
	FStat      float64
	DFModel    int
	DFResidual int
}

// FitSpendPerNight fits spend-per-night on sex, quarter, residency flag and
// age band by ordinary least squares. Categorical predictors are dummy-coded
// against their first level (sorted; quarters chronologically), and the
// residency flag enters only when it varies in the data, so the design
// matrix stays full rank on degenerate inputs.
func FitSpendPerNight(rows []dataprocessing.PerNightRow) (*ModelResult, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewComputationError("no observations to fit")
	}

	names, build := designColumns(rows)
	p := len(names) + 1 // intercept
	n := len(rows)
	if n <= p {
		return nil, apperrors.NewComputationError("insufficient observations for the model").
			WithContext("observations", n).
			WithContext("parameters", p)
	}

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, row := range rows {
		x.Set(i, 0, 1)
		for j, col := range build {
			x.Set(i, j+1, col(row))
		}
		y.SetVec(i, row.SpendPerNight)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, apperrors.NewComputationError("design matrix is singular").
			WithContext("cause", err.Error())
	}

	// Residual and total sums of squares.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	sse := 0.0
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		r := y.AtVec(i) - fitted.AtVec(i)
		sse += r * r
		ys[i] = y.AtVec(i)
	}
	mean := stat.Mean(ys, nil)
	sst := 0.0
	for _, v := range ys {
		d := v - mean
		sst += d * d
	}
	if sst == 0 {
		return nil, apperrors.NewComputationError("response is constant; model is undefined")
	}

	dfModel := p - 1
	dfResidual := n - p
	r2 := 1 - sse/sst
	adjR2 := 1 - (sse/float64(dfResidual))/(sst/float64(n-1))

	fstat := math.Inf(1)
	if sse > 0 {
		fstat = ((sst - sse) / float64(dfModel)) / (sse / float64(dfResidual))
	}

	// Coefficient standard errors from sigma^2 * (X'X)^-1.
	sigma2 := sse / float64(dfResidual)
	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, apperrors.NewComputationError("design matrix is singular").
			WithContext("cause", err.Error())
	}

	terms := make([]ModelTerm, p)
	termNames := append([]string{"(intercept)"}, names...)
	for j := 0; j < p; j++ {
		coef := beta.AtVec(j)
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		t := math.Inf(1)
		if se > 0 {
			t = coef / se
		}
		terms[j] = ModelTerm{Name: termNames[j], Coefficient: coef, StdErr: se, TStat: t}
	}

	return &ModelResult{
		Terms:      terms,
		N:          n,
		R2:         r2,
		AdjR2:      adjR2,
		FStat:      fstat,
		DFModel:    dfModel,
		DFResidual: dfResidual,
	}, nil
}

// designColumns derives the dummy columns from the observed predictor
// levels: one column per non-reference level of sex, quarter and age, plus
// the residency flag when it varies.
func designColumns(rows []dataprocessing.PerNightRow) ([]string, []func(dataprocessing.PerNightRow) float64) {
	var names []string
	var build []func(dataprocessing.PerNightRow) float64

	for _, level := range nonReferenceLevels(rows, func(r dataprocessing.PerNightRow) string { return r.Sex }) {
		level := level
		names = append(names, "sex="+level)
		build = append(build, func(r dataprocessing.PerNightRow) float64 {
			if r.Sex == level {
				return 1
			}
			return 0
		})
	}

	quarters := nonReferenceQuarters(rows)
	for _, level := range quarters {
		level := level
		names = append(names, "quarter="+level)
		build = append(build, func(r dataprocessing.PerNightRow) float64 {
			if string(r.Quarter) == level {
				return 1
			}
			return 0
		})
	}

	if residencyVaries(rows) {
		names = append(names, "uk_resident")
		build = append(build, func(r dataprocessing.PerNightRow) float64 {
			if r.UKResident {
				return 1
			}
			return 0
		})
	}

	for _, level := range nonReferenceLevels(rows, func(r dataprocessing.PerNightRow) string { return r.Age }) {
		level := level
		names = append(names, "age="+level)
		build = append(build, func(r dataprocessing.PerNightRow) float64 {
			if r.Age == level {
				return 1
			}
			return 0
		})
	}

	return names, build
}

// nonReferenceLevels returns the sorted distinct levels of a categorical
// field, minus the first (the reference level).
func nonReferenceLevels(rows []dataprocessing.PerNightRow, field func(dataprocessing.PerNightRow) string) []string {
	seen := make(map[string]bool)
	for _, r := range rows {
		seen[field(r)] = true
	}
	levels := make([]string, 0, len(seen))
	for level := range seen {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	if len(levels) <= 1 {
		return nil
	}
	return levels[1:]
}

// nonReferenceQuarters returns the observed quarters in chronological order,
// minus the earliest (the reference level).
func nonReferenceQuarters(rows []dataprocessing.PerNightRow) []string {
	type qo struct {
		label   string
		ordinal int
	}
	seen := make(map[string]int)
	for _, r := range rows {
		ord, _ := r.Quarter.Ordinal()
		seen[string(r.Quarter)] = ord
	}
	quarters := make([]qo, 0, len(seen))
	for label, ord := range seen {
		quarters = append(quarters, qo{label: label, ordinal: ord})
	}
	sort.Slice(quarters, func(i, j int) bool { return quarters[i].ordinal < quarters[j].ordinal })
	if len(quarters) <= 1 {
		return nil
	}
	labels := make([]string, 0, len(quarters)-1)
	for _, q := range quarters[1:] {
		labels = append(labels, q.label)
	}
	return labels
}

// residencyVaries reports whether both resident and non-resident rows occur.
func residencyVaries(rows []dataprocessing.PerNightRow) bool {
	var sawTrue, sawFalse bool
	for _, r := range rows {
		if r.UKResident {
			sawTrue = true
		} else {
			sawFalse = true
		}
		if sawTrue && sawFalse {
			return true
		}
	}
	return false
}

// Summary formats the fit as a plain-text report.
func (m *ModelResult) Summary() string {
	var b strings.Builder

	b.WriteString("OLS: spend per night ~ sex + quarter + uk_resident + age\n")
	fmt.Fprintf(&b, "n=%d  R^2=%.4f  adj R^2=%.4f  F(%d, %d)=%.4f\n\n",
		m.N, m.R2, m.AdjR2, m.DFModel, m.DFResidual, m.FStat)

	fmt.Fprintf(&b, "%-24s %12s %12s %10s\n", "term", "coef", "stderr", "t")
	for _, term := range m.Terms {
		fmt.Fprintf(&b, "%-24s %12.4f %12.4f %10.4f\n",
			term.Name, term.Coefficient, term.StdErr, term.TStat)
	}

	return b.String()
}
