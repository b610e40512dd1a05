// Command seed populates the document store with realistic ticket and user
// fixtures so the analytics API has something to roll up. Point it at the
// same backend the server uses.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
	"github.com/ticketpulse/ticketpulse/pkg/logging"
	"github.com/ticketpulse/ticketpulse/pkg/records"
	"github.com/ticketpulse/ticketpulse/pkg/server"
)

var eventNames = []string{
	"Launch Night",
	"Spring Tech Summit",
	"Indie Film Festival",
	"Jazz in the Park",
	"Founders Meetup",
	"Winter Gala",
}

func main() {
	days := flag.Int("days", 30, "number of past days to seed")
	ticketsPerDay := flag.Int("tickets", 40, "average tickets per day")
	usersPerDay := flag.Int("users", 10, "average user signups per day")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	_ = godotenv.Load()
	logger := logging.New(os.Getenv("APP_ENV"))

	cfg, err := server.LoadConfig(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	store, err := server.InitializeStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer store.Close()

	rng := rand.New(rand.NewSource(*seed))
	now := time.Now()

	var userIDs []string
	var ticketCount, userCount int

	for d := *days; d >= 1; d-- {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -d)

		// Signups trend upward toward today so growth rates have a signal.
		signups := jitter(rng, *usersPerDay+(*days-d)/4)
		for i := 0; i < signups; i++ {
			u := records.User{
				ID:        uuid.NewString(),
				CreatedAt: randomMoment(rng, dayStart),
				Deleted:   rng.Float64() < 0.02,
			}
			if err := putJSON(ctx, store, records.UserCollection, u.ID, u); err != nil {
				logger.Fatal().Err(err).Msg("failed to write user")
			}
			if !u.Deleted {
				userIDs = append(userIDs, u.ID)
			}
			userCount++
		}

		sold := jitter(rng, *ticketsPerDay+(*days-d)/2)
		for i := 0; i < sold; i++ {
			tk := records.Ticket{
				ID:        uuid.NewString(),
				Type:      randomType(rng),
				CreatedAt: randomMoment(rng, dayStart),
				CheckedIn: rng.Float64() < 0.6,
				Cancelled: rng.Float64() < 0.05,
				EventName: eventNames[rng.Intn(len(eventNames))],
			}
			if len(userIDs) > 0 && rng.Float64() < 0.9 {
				tk.UserID = userIDs[rng.Intn(len(userIDs))]
			}
			if err := putJSON(ctx, store, records.TicketCollection, tk.ID, tk); err != nil {
				logger.Fatal().Err(err).Msg("failed to write ticket")
			}
			ticketCount++
		}
	}

	logger.Info().
		Int("days", *days).
		Int("tickets", ticketCount).
		Int("users", userCount).
		Str("backend", cfg.Backend).
		Msg("seeding complete")
}

// randomType picks a ticket type with a realistic sales mix.
func randomType(rng *rand.Rand) records.TicketType {
	switch r := rng.Float64(); {
	case r < 0.6:
		return records.TicketStandard
	case r < 0.9:
		return records.TicketPremium
	default:
		return records.TicketVIP
	}
}

// randomMoment returns a time within the given day, weighted toward evening
// hours when most ticket activity happens.
func randomMoment(rng *rand.Rand, dayStart time.Time) time.Time {
	hour := 9 + rng.Intn(13)
	return dayStart.Add(time.Duration(hour)*time.Hour +
		time.Duration(rng.Intn(60))*time.Minute +
		time.Duration(rng.Intn(60))*time.Second)
}

// jitter varies a count by up to ±25%.
func jitter(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	spread := n / 4
	if spread == 0 {
		return n
	}
	return n - spread + rng.Intn(2*spread+1)
}

func putJSON(ctx context.Context, store docstore.Store, collection, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Put(ctx, collection, key, data)
}
