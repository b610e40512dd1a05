package analytics

import (
	"testing"

	"github.com/ticketpulse/ticketpulse/pkg/records"
)

func TestRevenueArithmetic(t *testing.T) {
	tickets := []records.Ticket{
		{ID: "1", Type: records.TicketStandard},
		{ID: "2", Type: records.TicketPremium},
		{ID: "3", Type: records.TicketPremium},
		{ID: "4", Type: records.TicketVIP},
	}

	m := calcRevenueMetrics(tickets, tickets, maxTime(tickets))

	if m.DailyTotal != 197 {
		t.Errorf("DailyTotal = %v, want 197", m.DailyTotal)
	}
	if m.AveragePerTicket != 49.25 {
		t.Errorf("AveragePerTicket = %v, want 49.25", m.AveragePerTicket)
	}
	if m.ByType[records.TicketPremium] != 98 {
		t.Errorf("ByType[premium] = %v, want 98", m.ByType[records.TicketPremium])
	}
}

func TestRevenueIncludesCancelledTickets(t *testing.T) {
	// Cancelled tickets still count toward revenue; refunds are not modeled.
	tickets := []records.Ticket{
		{ID: "1", Type: records.TicketVIP, Cancelled: true},
		{ID: "2", Type: records.TicketPremium},
	}

	m := calcRevenueMetrics(tickets, tickets, maxTime(tickets))
	if m.DailyTotal != 148 {
		t.Errorf("DailyTotal = %v, want 148", m.DailyTotal)
	}
}

func TestRevenueEmptyDay(t *testing.T) {
	m := calcRevenueMetrics(nil, nil, maxTime(nil))
	if m.DailyTotal != 0 {
		t.Errorf("DailyTotal = %v, want 0", m.DailyTotal)
	}
	if m.AveragePerTicket != 0 {
		t.Errorf("AveragePerTicket = %v, want 0", m.AveragePerTicket)
	}
}

func TestEventMetricsCheckInRate(t *testing.T) {
	tickets := []records.Ticket{
		{ID: "1", EventName: "GopherCon", CheckedIn: true},
		{ID: "2", EventName: "GopherCon", CheckedIn: true},
		{ID: "3", EventName: "GopherCon"},
	}

	m := calcEventMetrics(tickets)
	if len(m.Events) != 1 {
		t.Fatalf("Events count = %d, want 1", len(m.Events))
	}
	if got := m.Events[0].CheckInRate; got != 66.7 {
		t.Errorf("CheckInRate = %v, want 66.7", got)
	}
}

func TestEventMetricsNoTickets(t *testing.T) {
	m := calcEventMetrics(nil)
	if m.TopEvent != nil {
		t.Errorf("TopEvent = %v, want nil", m.TopEvent)
	}
	if m.TotalEvents != 0 {
		t.Errorf("TotalEvents = %d, want 0", m.TotalEvents)
	}
}

func TestTopEventTieBreak(t *testing.T) {
	// Two events with equal counts: whichever was encountered first wins.
	tickets := []records.Ticket{
		{ID: "1", EventName: "Alpha"},
		{ID: "2", EventName: "Beta"},
		{ID: "3", EventName: "Beta"},
		{ID: "4", EventName: "Alpha"},
	}

	m := calcEventMetrics(tickets)
	if m.TopEvent == nil {
		t.Fatal("TopEvent is nil")
	}
	if m.TopEvent.Name != "Alpha" {
		t.Errorf("TopEvent = %s, want Alpha", m.TopEvent.Name)
	}
}

func TestEventOrderingByTicketCount(t *testing.T) {
	tickets := []records.Ticket{
		{ID: "1", EventName: "Small"},
		{ID: "2", EventName: "Big"},
		{ID: "3", EventName: "Big"},
		{ID: "4", EventName: "Big"},
		{ID: "5", EventName: "Medium"},
		{ID: "6", EventName: "Medium"},
	}

	m := calcEventMetrics(tickets)
	want := []string{"Big", "Medium", "Small"}
	for i, name := range want {
		if m.Events[i].Name != name {
			t.Errorf("Events[%d] = %s, want %s", i, m.Events[i].Name, name)
		}
	}
}

func TestEngagementMetrics(t *testing.T) {
	tickets := []records.Ticket{
		{ID: "1", UserID: "u1", Type: records.TicketPremium, CheckedIn: true},
		{ID: "2", UserID: "u1", Type: records.TicketStandard},
		{ID: "3", UserID: "u2", Type: records.TicketVIP},
		{ID: "4"}, // no owner, excluded
	}
	users := []records.User{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}, {ID: "u4"}}

	m := calcEngagementMetrics(tickets, users)

	if m.ActiveUsers != 2 {
		t.Errorf("ActiveUsers = %d, want 2", m.ActiveUsers)
	}
	if m.TotalUsers != 4 {
		t.Errorf("TotalUsers = %d, want 4", m.TotalUsers)
	}
	if m.EngagementRate != 50 {
		t.Errorf("EngagementRate = %v, want 50", m.EngagementRate)
	}
	if m.AvgTicketsPerActiveUser != 1.5 {
		t.Errorf("AvgTicketsPerActiveUser = %v, want 1.5", m.AvgTicketsPerActiveUser)
	}
	if len(m.TopUsers) != 2 || m.TopUsers[0].UserID != "u1" {
		t.Errorf("TopUsers = %v, want u1 first", m.TopUsers)
	}
	if m.TopUsers[0].Revenue != 49 {
		t.Errorf("TopUsers[0].Revenue = %v, want 49", m.TopUsers[0].Revenue)
	}
}

func TestEngagementTopFiveStableOrder(t *testing.T) {
	var tickets []records.Ticket
	// Seven users with one ticket each: top 5 must be the first five seen.
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		tickets = append(tickets, records.Ticket{ID: id, UserID: id})
	}

	m := calcEngagementMetrics(tickets, nil)
	if len(m.TopUsers) != 5 {
		t.Fatalf("TopUsers length = %d, want 5", len(m.TopUsers))
	}
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		if m.TopUsers[i].UserID != id {
			t.Errorf("TopUsers[%d] = %s, want %s", i, m.TopUsers[i].UserID, id)
		}
	}
}

func TestEngagementZeroUsers(t *testing.T) {
	m := calcEngagementMetrics(nil, nil)
	if m.EngagementRate != 0 {
		t.Errorf("EngagementRate = %v, want 0", m.EngagementRate)
	}
}

func TestUserMetricsExcludesDeleted(t *testing.T) {
	users := []records.User{{ID: "u1"}, {ID: "u2", Deleted: true}, {ID: "u3"}}
	m := calcUserMetrics(users, nil)
	if m.Registered != 2 {
		t.Errorf("Registered = %d, want 2", m.Registered)
	}
}

func TestTicketMetricsCounts(t *testing.T) {
	tickets := []records.Ticket{
		{ID: "1", Type: records.TicketStandard, CheckedIn: true},
		{ID: "2", Type: records.TicketPremium, Cancelled: true},
		{ID: "3", Type: records.TicketPremium},
	}

	m := calcTicketMetrics(tickets)
	if m.Created != 3 || m.CheckedIn != 1 || m.Cancelled != 1 {
		t.Errorf("counts = %+v", m)
	}
	if m.ByType[records.TicketPremium] != 2 {
		t.Errorf("ByType[premium] = %d, want 2", m.ByType[records.TicketPremium])
	}
}
