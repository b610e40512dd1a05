package analytics

import (
	"testing"
)

func TestPredictTrendsInsufficientHistory(t *testing.T) {
	rng := growthRange([]int{1, 2, 3, 4, 5, 6})
	if f := PredictTrends(rng, 7); f != nil {
		t.Errorf("PredictTrends on 6 days = %+v, want nil", f)
	}
}

func TestPredictTrendsIncreasing(t *testing.T) {
	// Strictly increasing 10-day series: every projection must be at least
	// the last observed value.
	rng := growthRange([]int{10, 12, 14, 16, 18, 20, 22, 24, 26, 28})
	f := PredictTrends(rng, 5)
	if f == nil {
		t.Fatal("PredictTrends returned nil")
	}

	if f.Trends.Tickets != TrendIncreasing {
		t.Errorf("Trends.Tickets = %s, want %s", f.Trends.Tickets, TrendIncreasing)
	}
	if len(f.Tickets) != 5 {
		t.Fatalf("projection length = %d, want 5", len(f.Tickets))
	}
	for i, v := range f.Tickets {
		if v < 28 {
			t.Errorf("Tickets[%d] = %v, want >= last observed 28", i, v)
		}
	}
	// Exact fit: slope 2, intercept 10, next value 10 + 2*10 = 30.
	if f.Tickets[0] != 30 {
		t.Errorf("Tickets[0] = %v, want 30", f.Tickets[0])
	}
}

func TestPredictTrendsFloor(t *testing.T) {
	// Strictly decreasing series reaching 0: projections never go negative.
	rng := growthRange([]int{14, 12, 10, 8, 6, 4, 2, 0})
	f := PredictTrends(rng, 4)
	if f == nil {
		t.Fatal("PredictTrends returned nil")
	}

	if f.Trends.Tickets != TrendDecreasing {
		t.Errorf("Trends.Tickets = %s, want %s", f.Trends.Tickets, TrendDecreasing)
	}
	for i, v := range f.Tickets {
		if v < 0 {
			t.Errorf("Tickets[%d] = %v, negative projection", i, v)
		}
	}
	for i, v := range f.Revenue {
		if v < 0 {
			t.Errorf("Revenue[%d] = %v, negative projection", i, v)
		}
	}
}

func TestPredictTrendsFlatIsDecreasing(t *testing.T) {
	// Zero slope labels as decreasing.
	rng := growthRange([]int{5, 5, 5, 5, 5, 5, 5})
	f := PredictTrends(rng, 1)
	if f == nil {
		t.Fatal("PredictTrends returned nil")
	}
	if f.Trends.Tickets != TrendDecreasing {
		t.Errorf("Trends.Tickets = %s, want %s for flat series", f.Trends.Tickets, TrendDecreasing)
	}
}

func TestPredictTrendsConfidence(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{15, 0.5},
		{30, 1},
		{60, 1},
	}

	for _, tt := range tests {
		values := make([]int, tt.days)
		for i := range values {
			values[i] = i
		}
		f := PredictTrends(growthRange(values), 1)
		if f == nil {
			t.Fatalf("PredictTrends(%d days) returned nil", tt.days)
		}
		if f.Confidence != tt.want {
			t.Errorf("Confidence(%d days) = %v, want %v", tt.days, f.Confidence, tt.want)
		}
	}
}

func TestLeastSquaresExactLine(t *testing.T) {
	slope, intercept := leastSquares([]float64{3, 5, 7, 9})
	if slope != 2 {
		t.Errorf("slope = %v, want 2", slope)
	}
	if intercept != 3 {
		t.Errorf("intercept = %v, want 3", intercept)
	}
}

func TestLeastSquaresDegenerate(t *testing.T) {
	slope, intercept := leastSquares([]float64{42})
	if slope != 0 || intercept != 0 {
		t.Errorf("single-point fit = %v/%v, want 0/0", slope, intercept)
	}
}
