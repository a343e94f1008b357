// Package creditscore decomposes a validated CIBIL report into weighted
// component sub-scores with deterministic improvement guidance.
package creditscore

import (
	"fmt"
	"math"
	"strconv"

	"rinsetu/internal/domain"
	"rinsetu/internal/validator/loandoc"
)

// componentOrder fixes the breakdown ordering.
var componentOrder = []domain.ScoreComponent{
	domain.ComponentPaymentHistory,
	domain.ComponentCreditUtilization,
	domain.ComponentCreditAge,
	domain.ComponentCreditMix,
	domain.ComponentInquiries,
}

// Config carries the component weights and the suggestion threshold.
type Config struct {
	Weights map[domain.ScoreComponent]float64
	// Threshold is the fraction of a component's maximum below which a
	// suggestion is emitted (default 0.70).
	Threshold float64
}

// Analyzer is a pure function object over validated CIBIL fields.
type Analyzer struct {
	cfg Config
}

// New validates the weight table eagerly. Weights not summing to 1.0 are a
// configuration error, fatal at construction and never per analysis.
func New(cfg Config) (*Analyzer, error) {
	sum := 0.0
	for _, c := range componentOrder {
		w, ok := cfg.Weights[c]
		if !ok {
			return nil, fmt.Errorf("%w: missing weight for component %s",
				domain.ErrInvalidConfiguration, c)
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight for component %s",
				domain.ErrInvalidConfiguration, c)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return nil, fmt.Errorf("%w: component weights sum to %.4f, want 1.0",
			domain.ErrInvalidConfiguration, sum)
	}
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("%w: suggestion threshold %.2f outside (0,1]",
			domain.ErrInvalidConfiguration, cfg.Threshold)
	}
	return &Analyzer{cfg: cfg}, nil
}

// Analyze maps the report's raw component figures to weighted sub-scores and
// emits one templated suggestion per component below the threshold. The
// overall score must already have passed range validation; out-of-range input
// is rejected here too rather than clamped.
func (a *Analyzer) Analyze(res *domain.ValidationResult) (*domain.CreditScoreBreakdown, error) {
	score, err := strconv.Atoi(res.NormalizedFields["cibil_score"])
	if err != nil {
		return nil, fmt.Errorf("parsing cibil_score: %w", err)
	}
	if score < loandoc.CIBILScoreMin || score > loandoc.CIBILScoreMax {
		return nil, fmt.Errorf("cibil score %d outside [300,900]", score)
	}

	breakdown := &domain.CreditScoreBreakdown{
		DocumentID:   res.DocumentID,
		OverallScore: score,
		Band:         Band(score),
	}

	for _, comp := range componentOrder {
		raw := rawScore(comp, res.NormalizedFields, score)
		cs := domain.ComponentScore{
			Component: comp,
			Weight:    a.cfg.Weights[comp],
			RawScore:  raw,
			Weighted:  raw * a.cfg.Weights[comp],
		}
		if raw < a.cfg.Threshold*100 {
			cs.Suggestion = suggestion(comp, raw)
		}
		breakdown.Components = append(breakdown.Components, cs)
	}

	return breakdown, nil
}

// Band categorizes an in-range CIBIL score.
func Band(score int) string {
	switch {
	case score >= 750:
		return "Excellent"
	case score >= 650:
		return "Good"
	case score >= 550:
		return "Fair"
	default:
		return "Poor"
	}
}

// rawScore maps a component's reported figure to a 0–100 sub-score. A report
// that omits the figure gets a deterministic estimate scaled from the overall
// score, so the breakdown stays total.
func rawScore(comp domain.ScoreComponent, fields map[string]string, overall int) float64 {
	estimate := float64(overall-loandoc.CIBILScoreMin) / float64(loandoc.CIBILScoreMax-loandoc.CIBILScoreMin) * 100

	parse := func(field string) (float64, bool) {
		v, err := strconv.ParseFloat(fields[field], 64)
		return v, err == nil
	}

	switch comp {
	case domain.ComponentPaymentHistory:
		// Percentage of on-time payments.
		if v, ok := parse("payment_history"); ok {
			return clamp(v, 0, 100)
		}
	case domain.ComponentCreditUtilization:
		// Lower utilization scores higher.
		if v, ok := parse("credit_utilization"); ok {
			return clamp(100-v, 0, 100)
		}
	case domain.ComponentCreditAge:
		// Ten or more years of history scores full marks.
		if v, ok := parse("credit_age"); ok {
			return clamp(v/10*100, 0, 100)
		}
	case domain.ComponentCreditMix:
		// Four or more distinct account types scores full marks.
		if v, ok := parse("credit_accounts"); ok {
			return clamp(v/4*100, 0, 100)
		}
	case domain.ComponentInquiries:
		// Each recent hard inquiry costs twenty points.
		if v, ok := parse("recent_inquiries"); ok {
			return clamp(100-20*v, 0, 100)
		}
	}
	return estimate
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
