package engine

import "rinsetu/internal/domain"

// scoreBand buckets an in-range credit score against the configured band
// minimums.
type scoreBand int

const (
	scoreBandFair scoreBand = iota
	scoreBandGood
	scoreBandExcellent
)

// dtiBand buckets a debt-to-income ratio against the configured maximums.
type dtiBand int

const (
	dtiBandLow dtiBand = iota
	dtiBandMedium
	dtiBandHigh
)

func (e *Engine) scoreBandOf(score int) scoreBand {
	switch {
	case score >= e.cfg.ScoreExcellentMin:
		return scoreBandExcellent
	case score >= e.cfg.ScoreGoodMin:
		return scoreBandGood
	default:
		return scoreBandFair
	}
}

func (e *Engine) dtiBandOf(ratio float64) dtiBand {
	switch {
	case ratio <= e.cfg.DTILowMax:
		return dtiBandLow
	case ratio <= e.cfg.DTIMediumMax:
		return dtiBandMedium
	default:
		return dtiBandHigh
	}
}

// riskTierTable is the 2-D (score band × DTI band) risk lookup.
var riskTierTable = map[scoreBand]map[dtiBand]domain.RiskTier{
	scoreBandExcellent: {
		dtiBandLow:    domain.RiskTierLow,
		dtiBandMedium: domain.RiskTierMedium,
		dtiBandHigh:   domain.RiskTierHigh,
	},
	scoreBandGood: {
		dtiBandLow:    domain.RiskTierMedium,
		dtiBandMedium: domain.RiskTierMedium,
		dtiBandHigh:   domain.RiskTierHigh,
	},
	scoreBandFair: {
		dtiBandLow:    domain.RiskTierHigh,
		dtiBandMedium: domain.RiskTierHigh,
		dtiBandHigh:   domain.RiskTierHigh,
	},
}

// rateBandByTier derives the interest band solely from the risk tier.
var rateBandByTier = map[domain.RiskTier]domain.InterestRateBand{
	domain.RiskTierLow:        domain.RateBandPrime,
	domain.RiskTierMedium:     domain.RateBandStandard,
	domain.RiskTierHigh:       domain.RateBandSubprime,
	domain.RiskTierIneligible: domain.RateBandNotOffered,
}
