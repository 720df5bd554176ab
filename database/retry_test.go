package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "no rows", err: sql.ErrNoRows, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "conn done", err: sql.ErrConnDone, want: true},
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "connection class", err: &pgconn.PgError{Code: "08006"}, want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "wrapped deadlock", err: fmt.Errorf("update: %w", &pgconn.PgError{Code: "40P01"}), want: true},
		{name: "refused message", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "plain error", err: errors.New("column does not exist"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transient(tt.err))
		})
	}
}

func TestIsConnectionLoss(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "conn done", err: sql.ErrConnDone, want: true},
		{name: "bad conn", err: fmt.Errorf("exec: %w", driver.ErrBadConn), want: true},
		{name: "connection failure class", err: &pgconn.PgError{Code: "08006"}, want: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: false},
		{name: "dial", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, want: true},
		{name: "syntax", err: errors.New("syntax error at or near"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConnectionLoss(tt.err))
		})
	}
}

func TestBackoffRun(t *testing.T) {
	fast := backoff{attempts: 3, first: time.Millisecond, ceiling: 2 * time.Millisecond}

	t.Run("retries transient until success", func(t *testing.T) {
		calls := 0
		err := fast.run(context.Background(), func() error {
			calls++
			if calls < 3 {
				return sql.ErrConnDone
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		perm := &pgconn.PgError{Code: "23505"}
		err := fast.run(context.Background(), func() error {
			calls++
			return perm
		})
		assert.ErrorIs(t, err, perm)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		err := fast.run(context.Background(), func() error {
			calls++
			return sql.ErrConnDone
		})
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Equal(t, 3, calls)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := backoff{attempts: 3, first: time.Hour, ceiling: time.Hour}
		err := slow.run(ctx, func() error { return sql.ErrConnDone })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
