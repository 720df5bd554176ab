package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

type backoff struct {
	attempts int
	first    time.Duration
	ceiling  time.Duration
}

var defaultBackoff = backoff{attempts: 3, first: 100 * time.Millisecond, ceiling: 2 * time.Second}

// SQLState extracts the SQLSTATE code from either driver's error type.
func SQLState(err error) string {
	var pgdErr pgdriver.Error
	if errors.As(err, &pgdErr) {
		return pgdErr.Field('C')
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	return ""
}

// Codes worth another attempt: serialization_failure, deadlock_detected,
// cannot_connect_now. Classes 08 (connection) and 53 (resources) also qualify.
var (
	transientCodes   = map[string]bool{"40001": true, "40P01": true, "57P03": true}
	transientClasses = []string{"08", "53"}
)

// Driver errors without a SQLSTATE that still indicate a dropped or
// saturated connection.
var transientMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"bad connection",
	"connection closed",
	"too many clients",
	"server is not accepting",
	"i/o timeout",
	"eof",
}

func transient(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrNoRows):
		return false
	case errors.Is(err, sql.ErrConnDone):
		return true
	}

	if code := SQLState(err); code != "" {
		if transientCodes[code] {
			return true
		}
		for _, class := range transientClasses {
			if strings.HasPrefix(code, class) {
				return true
			}
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range transientMessages {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// isConnectionLoss reports errors that mean the connection itself is gone,
// as opposed to a query the server refused.
func isConnectionLoss(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if code := SQLState(err); code != "" {
		return strings.HasPrefix(code, "08")
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// run calls op until it succeeds, returns a permanent error or attempts run out.
func (b backoff) run(ctx context.Context, op func() error) error {
	delay := b.first
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || attempt >= b.attempts || !transient(err) {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, b.ceiling)
	}
}

// WithRetry retries fn on transient connection and serialization failures.
func WithRetry(ctx context.Context, fn func() error) error {
	return defaultBackoff.run(ctx, fn)
}
