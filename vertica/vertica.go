package vertica

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/UltimateTournament/backoff/v4"
	_ "github.com/vertica/vertica-sql-go"

	"github.com/vexport/vexport/gologger"
	"github.com/vexport/vexport/utils"
)

var (
	logger = gologger.NewLogger()

	// a missing table can never be fixed by retrying
	ErrTableNotFound = utils.PermError("table not found")

	StandardContextTimeout = 10 * time.Second
)

type (
	// Config carries everything needed to reach one database. Built once in
	// main and passed by value; there is no ambient connection state.
	Config struct {
		Server   string
		Port     int
		Database string
		Username string
		Password string
	}
)

// DSN builds the driver connection string.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "vertica",
		Host:   net.JoinHostPort(c.Server, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	} else {
		u.User = url.User(c.Username)
	}
	return u.String()
}

// Connect opens a connection and verifies it with a backoff-wrapped ping.
// Connectivity errors propagate unchanged once the retry window is spent.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	logger.Debug().Str("server", cfg.Server).Int("port", cfg.Port).Str("database", cfg.Database).Msg("connecting to vertica...")

	db, err := sql.Open("vertica", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error in sql.Open: %w", err)
	}

	// the extraction is a single streamed statement
	db.SetMaxOpenConns(1)

	err = backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, StandardContextTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error pinging vertica: %w", err)
	}

	logger.Debug().Msg("connected to vertica")
	return db, nil
}
