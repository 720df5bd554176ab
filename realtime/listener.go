package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/jackc/pgx/v5"
)

// Listener holds a dedicated connection LISTENing on a channel and hands every
// decoded notification to a handler.
type Listener struct {
	dsn            string
	channel        string
	reconnectDelay time.Duration
	logger         *gecho.Logger
	handle         func(ChangeEvent)
}

func NewListener(dsn, channel string, reconnectDelay time.Duration, logger *gecho.Logger, handle func(ChangeEvent)) *Listener {
	return &Listener{
		dsn:            dsn,
		channel:        channel,
		reconnectDelay: reconnectDelay,
		logger:         logger,
		handle:         handle,
	}
}

// Run listens until ctx is cancelled, reconnecting after failures with a
// delay that doubles up to one minute.
func (l *Listener) Run(ctx context.Context) {
	delay := l.reconnectDelay
	for {
		connected, err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			delay = l.reconnectDelay
		}

		l.logger.Warn("Realtime listener disconnected, reconnecting",
			gecho.Field("error", err),
			gecho.Field("channel", l.channel),
			gecho.Field("delay", delay.String()),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, time.Minute)
	}
}

func (l *Listener) listen(ctx context.Context) (bool, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return false, err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return false, err
	}
	l.logger.Info("Listening for realtime changes", gecho.Field("channel", l.channel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return true, nil
			}
			return true, err
		}

		ev, err := ParseChangeEvent(n.Payload)
		if err != nil {
			l.logger.Warn("Ignoring malformed notification", gecho.Field("error", err), gecho.Field("payload", n.Payload))
			continue
		}
		l.handle(ev)
	}
}
