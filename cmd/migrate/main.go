package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"

	"BetPool/internal/observability"
	"BetPool/internal/store"
)

func main() {
	log := observability.NewLogger("migrate")

	var (
		dsn = flag.String("dsn", os.Getenv("POOL_POSTGRES_DSN"), "Postgres DSN")
		dir = flag.String("dir", "migrations", "migrations directory")
	)
	flag.Parse()

	direction := "up"
	if args := flag.Args(); len(args) > 0 {
		direction = args[0]
	}

	if *dsn == "" {
		log.Fatal().Msg("no DSN: set POOL_POSTGRES_DSN or pass -dsn")
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres open")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres ping")
	}

	migrator := store.NewMigrator(db, *dir, log)

	switch direction {
	case "up":
		if err := migrator.Up(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrate up")
		}
		log.Info().Msg("migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrate down")
		}
		log.Info().Msg("migration rolled back")
	default:
		log.Fatal().Str("direction", direction).Msg("unknown direction, want up or down")
	}
}
