package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"poolcare_server/structs"
	"strconv"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DB wraps the bun database handle. It satisfies bun.IDB, so it can be handed to
// Query directly; inside a transaction pass the bun.Tx instead.
type DB struct {
	*bun.DB
	logger *gecho.Logger
}

const slowQueryThreshold = time.Second

// Connect opens a pooled connection using the database section of the config.
func Connect(ctx context.Context, cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	connector := pgdriver.NewConnector(
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithInsecure(!cfg.SSLMode),
		pgdriver.WithApplicationName("poolcare_server"),
		pgdriver.WithDialTimeout(5*time.Second),
		pgdriver.WithReadTimeout(cfg.ReadTimeout),
		pgdriver.WithWriteTimeout(cfg.WriteTimeout),
	)

	sqldb := sql.OpenDB(connector)
	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)

	return open(ctx, sqldb, logger)
}

// ConnectDSN opens a connection from a postgres:// URL.
func ConnectDSN(ctx context.Context, dsn string, logger *gecho.Logger) (*DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return open(ctx, sqldb, logger)
}

func open(ctx context.Context, sqldb *sql.DB, logger *gecho.Logger) (*DB, error) {
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&queryLogHook{logger: logger})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")

	return &DB{DB: db, logger: logger}, nil
}

// DSN renders the config as a postgres:// URL, used by connections that bypass
// the pool (LISTEN).
func DSN(cfg *structs.DatabaseConfig) string {
	sslmode := "disable"
	if cfg.SSLMode {
		sslmode = "require"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=" + sslmode,
	}
	return u.String()
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// Stats returns connection pool statistics for monitoring
func (db *DB) Stats() sql.DBStats {
	return db.DB.DB.Stats()
}

// Transaction runs fn inside a transaction, committing when fn returns nil.
func (db *DB) Transaction(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return db.RunInTx(ctx, nil, fn)
}

type queryLogHook struct {
	logger *gecho.Logger
}

var _ bun.QueryHook = (*queryLogHook)(nil)

func (h *queryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if duration := time.Since(event.StartTime); duration > slowQueryThreshold {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	if event.Err == nil || errors.Is(event.Err, sql.ErrNoRows) {
		return
	}

	if isConnectionLoss(event.Err) {
		h.logger.Error("Database connection lost, the server may have closed it",
			gecho.Field("error", event.Err),
			gecho.Field("query", event.Query),
		)
	}
}
