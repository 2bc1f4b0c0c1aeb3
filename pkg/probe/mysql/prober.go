// Package mysql implements the MySQL connectivity prober.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/tiangong-ops/opshub/pkg/probe"
)

// dialTimeout is a belt-and-braces bound on the TCP dial. The caller's
// context deadline remains the authoritative limit.
const dialTimeout = 5 * time.Second

// Probe opens a fresh connection, authenticates, runs a trivial
// round-trip query and closes the connection. Nothing is persisted.
func Probe(ctx context.Context, p probe.Params) error {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", p.Host, p.Port)
	cfg.User = p.Username
	cfg.Passwd = p.Secret
	cfg.DBName = p.Database
	cfg.Timeout = dialTimeout

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return wrapDriverErr(fmt.Errorf("invalid connection parameters: %w", err))
	}

	db := sql.OpenDB(connector)
	defer db.Close()

	// A probe is a single handshake, never a pool.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return wrapDriverErr(err)
	}

	// Liveness round-trip beyond the handshake.
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return wrapDriverErr(err)
	}

	return nil
}

// wrapDriverErr attaches the MySQL server error number, when present,
// while keeping the driver's literal message and any context error
// reachable via errors.Is.
func wrapDriverErr(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return &probe.Error{Code: strconv.Itoa(int(myErr.Number)), Err: err}
	}
	return &probe.Error{Err: err}
}
