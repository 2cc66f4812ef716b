package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// ConnectOptions tunes the connection retry loop and pool.
type ConnectOptions struct {
	Attempts     int
	RetryDelay   time.Duration
	PingTimeout  time.Duration
	MaxOpenConns int
	MaxIdleConns int
}

func defaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		Attempts:     30,
		RetryDelay:   2 * time.Second,
		PingTimeout:  5 * time.Second,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	}
}

// Connect opens a pool to databaseURL, retrying until the server answers a
// ping or ctx is cancelled.
func Connect(ctx context.Context, databaseURL string, logger *slog.Logger, opts ...func(*ConnectOptions)) (*sql.DB, error) {
	o := defaultConnectOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var err error
	for attempt := 1; attempt <= o.Attempts; attempt++ {
		var db *sql.DB
		db, err = sql.Open("postgres", databaseURL)
		if err == nil {
			db.SetMaxOpenConns(o.MaxOpenConns)
			db.SetMaxIdleConns(o.MaxIdleConns)
			pingCtx, cancel := context.WithTimeout(ctx, o.PingTimeout)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				logger.InfoContext(ctx, "connected to postgres", "attempt", attempt)
				return db, nil
			}
			_ = db.Close()
		}
		logger.WarnContext(ctx, "postgres not ready, retrying",
			"attempt", attempt,
			"retry_in", o.RetryDelay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(o.RetryDelay):
		}
	}
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", o.Attempts, err)
}
