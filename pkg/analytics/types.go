package analytics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/ticketpulse/ticketpulse/pkg/records"
)

// Collection is the document-store collection holding daily rollups,
// separate from the raw-record collections.
const Collection = "analytics"

// DateFormat is the calendar-date key format.
const DateFormat = "2006-01-02"

// DailyRecord is the persisted per-day rollup. Exactly one exists per date;
// recomputation replaces it wholesale.
type DailyRecord struct {
	Date       string            `json:"date"`
	Tickets    TicketMetrics     `json:"tickets"`
	Users      UserMetrics       `json:"users"`
	Revenue    RevenueMetrics    `json:"revenue"`
	Events     EventMetrics      `json:"events"`
	Engagement EngagementMetrics `json:"engagement"`

	ProcessedAt          time.Time `json:"processedAt"`
	ProcessingDurationMs int64     `json:"processingDurationMs"`

	// Checksum fingerprints the metric blocks (not the timestamps), so a
	// recomputation can be told apart from a content change.
	Checksum string `json:"checksum"`
}

// TicketMetrics counts the day's ticket activity.
type TicketMetrics struct {
	Created   int                        `json:"created"`
	CheckedIn int                        `json:"checkedIn"`
	Cancelled int                        `json:"cancelled"`
	ByType    map[records.TicketType]int `json:"byType"`
}

// UserMetrics counts the day's user activity.
type UserMetrics struct {
	Registered int `json:"registered"`
	Active     int `json:"active"`
}

// RevenueMetrics totals the day's ticket revenue.
type RevenueMetrics struct {
	DailyTotal       float64                        `json:"dailyTotal"`
	CumulativeTotal  float64                        `json:"cumulativeTotal"`
	ByType           map[records.TicketType]float64 `json:"byType"`
	AveragePerTicket float64                        `json:"averagePerTicket"`
}

// EventStat aggregates one event's tickets for the day.
type EventStat struct {
	Name           string                     `json:"name"`
	TicketCount    int                        `json:"ticketCount"`
	CheckedInCount int                        `json:"checkedInCount"`
	CheckInRate    float64                    `json:"checkInRate"`
	Revenue        float64                    `json:"revenue"`
	ByType         map[records.TicketType]int `json:"byType"`
}

// EventMetrics breaks the day down per event, ordered by ticket count
// descending. TopEvent is nil when the day has no tickets.
type EventMetrics struct {
	TotalEvents int         `json:"totalEvents"`
	Events      []EventStat `json:"events"`
	TopEvent    *EventStat  `json:"topEvent"`
}

// UserStat aggregates one user's tickets for the day.
type UserStat struct {
	UserID         string  `json:"userId"`
	TicketCount    int     `json:"ticketCount"`
	CheckedInCount int     `json:"checkedInCount"`
	Revenue        float64 `json:"revenue"`
}

// EngagementMetrics measures how many of the day's users bought tickets.
type EngagementMetrics struct {
	ActiveUsers             int        `json:"activeUsers"`
	TotalUsers              int        `json:"totalUsers"`
	EngagementRate          float64    `json:"engagementRate"`
	AvgTicketsPerActiveUser float64    `json:"avgTicketsPerActiveUser"`
	TopUsers                []UserStat `json:"topUsers"`
}

// DateKey formats a time as the calendar-date key.
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}

// DocumentKey is the document-store key for a date's rollup.
func DocumentKey(date string) string {
	return "daily_" + date
}

// DayWindow returns the inclusive bounds of the calendar day containing t,
// in t's location: [00:00:00.000, 23:59:59.999].
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// fingerprint hashes the metric blocks of a record. Two rollups of the same
// raw data carry the same fingerprint even though their timestamps differ.
func fingerprint(r *DailyRecord) (string, error) {
	content := struct {
		Date       string            `json:"date"`
		Tickets    TicketMetrics     `json:"tickets"`
		Users      UserMetrics       `json:"users"`
		Revenue    RevenueMetrics    `json:"revenue"`
		Events     EventMetrics      `json:"events"`
		Engagement EngagementMetrics `json:"engagement"`
	}{r.Date, r.Tickets, r.Users, r.Revenue, r.Events, r.Engagement}

	data, err := json.Marshal(content)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
