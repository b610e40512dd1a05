package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/ticketpulse/ticketpulse/pkg/records"
)

// Metric calculators: pure reductions of an already-fetched record set for a
// single day. No I/O happens here.

// calcTicketMetrics counts the day's tickets.
func calcTicketMetrics(tickets []records.Ticket) TicketMetrics {
	m := TicketMetrics{ByType: make(map[records.TicketType]int)}
	for _, t := range tickets {
		m.Created++
		if t.CheckedIn {
			m.CheckedIn++
		}
		if t.Cancelled {
			m.Cancelled++
		}
		m.ByType[t.Type]++
	}
	return m
}

// calcUserMetrics counts registrations (excluding deleted accounts) and
// distinct ticket buyers for the day.
func calcUserMetrics(users []records.User, tickets []records.Ticket) UserMetrics {
	m := UserMetrics{}
	for _, u := range users {
		if !u.Deleted {
			m.Registered++
		}
	}
	m.Active = countActiveUsers(tickets)
	return m
}

// calcRevenueMetrics prices the day's tickets. Cancelled tickets are NOT
// excluded: revenue reflects what was sold, refunds are not modeled.
func calcRevenueMetrics(dayTickets, allTickets []records.Ticket, dayEnd time.Time) RevenueMetrics {
	m := RevenueMetrics{ByType: make(map[records.TicketType]float64)}
	for _, t := range dayTickets {
		price := records.Price(t.Type)
		m.DailyTotal += price
		m.ByType[t.Type] += price
	}
	if len(dayTickets) > 0 {
		m.AveragePerTicket = round2(m.DailyTotal / float64(len(dayTickets)))
	}
	for _, t := range allTickets {
		if t.CreatedAt.After(dayEnd) {
			continue
		}
		m.CumulativeTotal += records.Price(t.Type)
	}
	return m
}

// calcEventMetrics groups the day's tickets by event name. Events are
// ordered by ticket count descending; equal counts keep first-seen order, so
// the top event is whichever was encountered first.
func calcEventMetrics(tickets []records.Ticket) EventMetrics {
	m := EventMetrics{}
	byName := make(map[string]*EventStat)
	var order []string

	for _, t := range tickets {
		stat, ok := byName[t.EventName]
		if !ok {
			stat = &EventStat{Name: t.EventName, ByType: make(map[records.TicketType]int)}
			byName[t.EventName] = stat
			order = append(order, t.EventName)
		}
		stat.TicketCount++
		if t.CheckedIn {
			stat.CheckedInCount++
		}
		stat.Revenue += records.Price(t.Type)
		stat.ByType[t.Type]++
	}

	m.Events = make([]EventStat, 0, len(order))
	for _, name := range order {
		stat := byName[name]
		if stat.TicketCount > 0 {
			stat.CheckInRate = round1(float64(stat.CheckedInCount) / float64(stat.TicketCount) * 100)
		}
		m.Events = append(m.Events, *stat)
	}

	sort.SliceStable(m.Events, func(i, j int) bool {
		return m.Events[i].TicketCount > m.Events[j].TicketCount
	})

	m.TotalEvents = len(m.Events)
	if len(m.Events) > 0 {
		top := m.Events[0]
		m.TopEvent = &top
	}
	return m
}

// calcEngagementMetrics groups the day's tickets by owning user. Tickets
// without an owner are excluded. TopUsers is the top 5 by ticket count,
// equal counts keeping first-seen order.
func calcEngagementMetrics(tickets []records.Ticket, users []records.User) EngagementMetrics {
	m := EngagementMetrics{TotalUsers: len(users)}

	byUser := make(map[string]*UserStat)
	var order []string
	var ownedTickets int

	for _, t := range tickets {
		if t.UserID == "" {
			continue
		}
		ownedTickets++
		stat, ok := byUser[t.UserID]
		if !ok {
			stat = &UserStat{UserID: t.UserID}
			byUser[t.UserID] = stat
			order = append(order, t.UserID)
		}
		stat.TicketCount++
		if t.CheckedIn {
			stat.CheckedInCount++
		}
		stat.Revenue += records.Price(t.Type)
	}

	m.ActiveUsers = len(order)
	if m.TotalUsers > 0 {
		m.EngagementRate = round1(float64(m.ActiveUsers) / float64(m.TotalUsers) * 100)
	}
	if m.ActiveUsers > 0 {
		m.AvgTicketsPerActiveUser = round2(float64(ownedTickets) / float64(m.ActiveUsers))
	}

	stats := make([]UserStat, 0, len(order))
	for _, id := range order {
		stats = append(stats, *byUser[id])
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TicketCount > stats[j].TicketCount
	})
	if len(stats) > 5 {
		stats = stats[:5]
	}
	m.TopUsers = stats
	return m
}

// countActiveUsers counts distinct ticket owners.
func countActiveUsers(tickets []records.Ticket) int {
	seen := make(map[string]bool)
	for _, t := range tickets {
		if t.UserID != "" {
			seen[t.UserID] = true
		}
	}
	return len(seen)
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
