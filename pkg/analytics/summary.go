package analytics

// DayExtreme names a best/worst day by tickets created.
type DayExtreme struct {
	Date    string `json:"date"`
	Tickets int    `json:"tickets"`
}

// Summary is the reduction of a range into totals, per-day averages and
// extrema.
type Summary struct {
	Days int `json:"days"`

	TotalTickets   int     `json:"totalTickets"`
	TotalCheckedIn int     `json:"totalCheckedIn"`
	TotalUsers     int     `json:"totalUsers"`
	TotalRevenue   float64 `json:"totalRevenue"`

	AvgTicketsPerDay float64 `json:"avgTicketsPerDay"`
	AvgUsersPerDay   float64 `json:"avgUsersPerDay"`
	AvgRevenuePerDay float64 `json:"avgRevenuePerDay"`
	CheckInRate      float64 `json:"checkInRate"`

	BestDay  DayExtreme `json:"bestDay"`
	WorstDay DayExtreme `json:"worstDay"`
}

// Summarize reduces an ordered range. Returns nil for an empty range. Ties
// for best/worst day resolve to the first occurrence in range order.
func Summarize(rng []*DailyRecord) *Summary {
	if len(rng) == 0 {
		return nil
	}

	s := &Summary{Days: len(rng)}
	best := rng[0]
	worst := rng[0]

	for _, r := range rng {
		s.TotalTickets += r.Tickets.Created
		s.TotalCheckedIn += r.Tickets.CheckedIn
		s.TotalUsers += r.Users.Registered
		s.TotalRevenue += r.Revenue.DailyTotal

		if r.Tickets.Created > best.Tickets.Created {
			best = r
		}
		if r.Tickets.Created < worst.Tickets.Created {
			worst = r
		}
	}

	days := float64(s.Days)
	s.AvgTicketsPerDay = round1(float64(s.TotalTickets) / days)
	s.AvgUsersPerDay = round1(float64(s.TotalUsers) / days)
	s.AvgRevenuePerDay = round2(s.TotalRevenue / days)
	if s.TotalTickets > 0 {
		s.CheckInRate = round1(float64(s.TotalCheckedIn) / float64(s.TotalTickets) * 100)
	}

	s.BestDay = DayExtreme{Date: best.Date, Tickets: best.Tickets.Created}
	s.WorstDay = DayExtreme{Date: worst.Date, Tickets: worst.Tickets.Created}
	return s
}
