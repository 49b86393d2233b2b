package tolerance

import "gonum.org/v1/gonum/floats"

// Contribution is one contributor's share of the stack spread.
type Contribution struct {
	Index           int
	Name            string
	Sign            float64
	Band            float64 // plus + minus
	BandPercent     float64 // Share of the worst-case spread
	Variance        float64 // σ_i²
	VariancePercent float64 // Share of the RSS variance
}

// Contributions breaks the stack spread down per contributor, in input order.
//
// Worst-case spread is linear in the bands, RSS spread is linear in the
// variances, so the two shares rank contributors differently: a single wide
// tolerance dominates the RSS column far more than the worst-case column.
func Contributions(s Stackup) ([]Contribution, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return contributions(s), nil
}

func contributions(s Stackup) []Contribution {
	bands := make([]float64, len(s.Contributors))
	variances := make([]float64, len(s.Contributors))
	for i, c := range s.Contributors {
		sigma := c.Sigma()
		bands[i] = c.Band()
		variances[i] = sigma * sigma
	}
	totalBand := floats.Sum(bands)
	totalVariance := floats.Sum(variances)

	out := make([]Contribution, len(s.Contributors))
	for i, c := range s.Contributors {
		out[i] = Contribution{
			Index:    i,
			Name:     c.Name,
			Sign:     c.Direction.Sign(),
			Band:     bands[i],
			Variance: variances[i],
		}
		if totalBand > 0 {
			out[i].BandPercent = 100 * bands[i] / totalBand
		}
		if totalVariance > 0 {
			out[i].VariancePercent = 100 * variances[i] / totalVariance
		}
	}
	return out
}
