package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/alexvl/flight-offer-reservation/internal/airports"
	"github.com/alexvl/flight-offer-reservation/internal/amadeus"
	"github.com/alexvl/flight-offer-reservation/internal/config"
	"github.com/alexvl/flight-offer-reservation/internal/database"
	"github.com/alexvl/flight-offer-reservation/internal/handler"
	"github.com/alexvl/flight-offer-reservation/internal/ledger"
	"github.com/alexvl/flight-offer-reservation/internal/logger"
	"github.com/alexvl/flight-offer-reservation/internal/router"
	"github.com/alexvl/flight-offer-reservation/internal/session"
	queuepublisher "github.com/alexvl/flight-offer-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()
	log := logger.New(cfg.Env)

	// Upstream client. Missing credentials abort startup before any
	// network call is attempted.
	client, err := amadeus.New(cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.AmadeusTokenURL, cfg.AmadeusBaseURL, log)
	if err != nil {
		log.Fatal("amadeus client init failed", "error", err)
	}

	// Airports reference data. Malformed or missing data is fatal: every
	// search depends on code lookups.
	catalog, err := airports.Load(cfg.AirportsPath)
	if err != nil {
		log.Fatal("airports data load failed", "path", cfg.AirportsPath, "error", err)
	}
	log.Info("airports catalog loaded", "path", cfg.AirportsPath, "count", catalog.Count())

	// Reservation ledger backend.
	var store ledger.Store
	switch cfg.LedgerBackend {
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatal("database connection failed", "error", err)
		}
		mysqlStore := ledger.NewMySQLStore(db)
		if err := mysqlStore.InitSchema(context.Background()); err != nil {
			log.Fatal("ledger schema init failed", "error", err)
		}
		store = mysqlStore
		log.Info("ledger backend ready", "backend", "mysql")
	case "csv":
		store = ledger.NewCSVStore(cfg.LedgerPath)
		log.Info("ledger backend ready", "backend", "csv", "path", cfg.LedgerPath)
	default:
		log.Fatal("unknown ledger backend", "backend", cfg.LedgerBackend)
	}

	// Redis backs sessions, the response cache and the rate limiter. When
	// unreachable the service still runs: sessions move in-process and the
	// middlewares become pass-throughs.
	rdb := config.NewRedisClient()
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
	} else {
		log.Warn("redis unavailable, using in-process session store")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	searchHandler := handler.NewSearchHandler(client, log)
	airportsHandler := handler.NewAirportsHandler(catalog)
	reservationHandler := handler.NewReservationHandler(
		store, sessions, cfg.SessionSecret, cfg.SessionTTL,
		queuepublisher.PublishReservationConfirmed, log,
	)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterSearch(e, searchHandler, airportsHandler, rdb)
	router.RegisterReservation(e, reservationHandler, cfg.SessionSecret)

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
