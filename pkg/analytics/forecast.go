package analytics

import "math"

// minForecastHistory is the shortest range a forecast can be fit on.
const minForecastHistory = 7

// confidenceWindow is the range length at which confidence saturates at 1.
const confidenceWindow = 30

// TrendIncreasing and TrendDecreasing label a fitted slope. A zero slope
// labels as decreasing; downstream consumers rely on the two-value set.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
)

// Forecast projects ticket and revenue series a few days ahead.
type Forecast struct {
	HorizonDays int `json:"horizonDays"`

	Tickets []float64 `json:"tickets"`
	Revenue []float64 `json:"revenue"`

	// Confidence grows linearly with history length up to 1. It is a
	// heuristic, not a statistical bound.
	Confidence float64 `json:"confidence"`

	Trends ForecastTrends `json:"trends"`
}

// ForecastTrends labels the direction of each fitted series.
type ForecastTrends struct {
	Tickets string `json:"tickets"`
	Revenue string `json:"revenue"`
}

// PredictTrends fits an ordinary-least-squares line to the range's daily
// ticket counts and revenue, projecting horizonDays future values. Returns
// nil when the range has fewer than 7 entries.
func PredictTrends(rng []*DailyRecord, horizonDays int) *Forecast {
	n := len(rng)
	if n < minForecastHistory {
		return nil
	}
	if horizonDays < 0 {
		horizonDays = 0
	}

	tickets := make([]float64, n)
	revenue := make([]float64, n)
	for i, r := range rng {
		tickets[i] = float64(r.Tickets.Created)
		revenue[i] = r.Revenue.DailyTotal
	}

	tSlope, tIntercept := leastSquares(tickets)
	rSlope, rIntercept := leastSquares(revenue)

	f := &Forecast{
		HorizonDays: horizonDays,
		Tickets:     project(tSlope, tIntercept, n, horizonDays),
		Revenue:     project(rSlope, rIntercept, n, horizonDays),
		Confidence:  math.Min(float64(n)/confidenceWindow, 1),
		Trends: ForecastTrends{
			Tickets: trendLabel(tSlope),
			Revenue: trendLabel(rSlope),
		},
	}
	return f
}

// leastSquares fits y = slope*x + intercept over x = 0..n-1.
func leastSquares(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// project evaluates the fitted line at the horizon indices, flooring each
// prediction at 0 and rounding to the nearest integer.
func project(slope, intercept float64, n, horizon int) []float64 {
	out := make([]float64, 0, horizon)
	for i := 0; i < horizon; i++ {
		v := slope*float64(n+i) + intercept
		if v < 0 {
			v = 0
		}
		out = append(out, math.Round(v))
	}
	return out
}

func trendLabel(slope float64) string {
	if slope > 0 {
		return TrendIncreasing
	}
	return TrendDecreasing
}
