package analytics

// Metric is the closed set of rollup fields growth rates can be computed
// over. An unrecognized metric resolves every record to 0.
type Metric string

const (
	MetricTicketsCreated   Metric = "tickets.created"
	MetricTicketsCheckedIn Metric = "tickets.checkedIn"
	MetricTicketsCancelled Metric = "tickets.cancelled"
	MetricUsersRegistered  Metric = "users.registered"
	MetricUsersActive      Metric = "users.active"
	MetricRevenueDaily     Metric = "revenue.dailyTotal"
	MetricRevenueCumulative Metric = "revenue.cumulativeTotal"
	MetricEngagementRate   Metric = "engagement.rate"
)

// Value extracts the metric from a rollup. Unknown metrics read as 0.
func (m Metric) Value(r *DailyRecord) float64 {
	if r == nil {
		return 0
	}
	switch m {
	case MetricTicketsCreated:
		return float64(r.Tickets.Created)
	case MetricTicketsCheckedIn:
		return float64(r.Tickets.CheckedIn)
	case MetricTicketsCancelled:
		return float64(r.Tickets.Cancelled)
	case MetricUsersRegistered:
		return float64(r.Users.Registered)
	case MetricUsersActive:
		return float64(r.Users.Active)
	case MetricRevenueDaily:
		return r.Revenue.DailyTotal
	case MetricRevenueCumulative:
		return r.Revenue.CumulativeTotal
	case MetricEngagementRate:
		return r.Engagement.EngagementRate
	}
	return 0
}

// Lookback offsets for period-over-period comparison.
const (
	weeklyLookback  = 7
	monthlyLookback = 30
)

// GrowthRates holds period-over-comparable percentage changes.
type GrowthRates struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// Growth computes day/week/month-over-comparable percentage changes of a
// metric over an ordered range. Each rate is 0 when the range is too short
// for its lookback or the comparison value is 0.
func Growth(rng []*DailyRecord, metric Metric) GrowthRates {
	g := GrowthRates{}
	n := len(rng)
	if n < 2 {
		return g
	}

	last := metric.Value(rng[n-1])

	g.Daily = percentChange(last, metric.Value(rng[n-2]))
	if n >= weeklyLookback {
		g.Weekly = percentChange(last, metric.Value(rng[n-weeklyLookback]))
	}
	if n >= monthlyLookback {
		g.Monthly = percentChange(last, metric.Value(rng[n-monthlyLookback]))
	}
	return g
}

// percentChange is the percentage delta from previous to current, rounded to
// one decimal, 0 when previous is 0.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return round1((current - previous) / previous * 100)
}
