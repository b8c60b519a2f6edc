// The worker consumes reservation.confirmed events and appends them to the
// audit log. It runs separately from the API server so a broker outage or
// slow disk never touches request latency.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/alexvl/flight-offer-reservation/internal/logger"
	"github.com/alexvl/flight-offer-reservation/internal/queue"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(os.Getenv("APP_ENV"))
	log.Info("reservation consumer starting")
	if err := queue.StartReservationConsumer(log); err != nil {
		log.Fatal("consumer stopped", "error", err)
	}
}
