// Package postgres provides a chassis.Watcher that follows a form draft
// row in PostgreSQL using LISTEN/NOTIFY.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the table queried for drafts unless WithTable is used.
const DefaultTable = "form_drafts"

// Watcher watches one row of a drafts table. A trigger must notify the
// channel with the row id as payload:
//
//	CREATE TABLE form_drafts (
//	    id    TEXT PRIMARY KEY,
//	    patch JSONB NOT NULL
//	);
//
//	CREATE OR REPLACE FUNCTION notify_draft_change() RETURNS trigger AS $$
//	BEGIN
//	    PERFORM pg_notify('draft_changed', NEW.id);
//	    RETURN NEW;
//	END;
//	$$ LANGUAGE plpgsql;
//
//	CREATE TRIGGER draft_change_trigger
//	    AFTER INSERT OR UPDATE ON form_drafts
//	    FOR EACH ROW EXECUTE FUNCTION notify_draft_change();
type Watcher struct {
	pool    *pgxpool.Pool
	channel string
	id      string
	table   string
	column  string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithTable sets the drafts table name.
func WithTable(table string) Option {
	return func(w *Watcher) {
		w.table = table
	}
}

// WithColumn sets the column holding the encoded patch. Defaults to "patch".
func WithColumn(column string) Option {
	return func(w *Watcher) {
		w.column = column
	}
}

// New creates a Watcher for the draft row id, notified on channel.
func New(pool *pgxpool.Pool, channel, id string, opts ...Option) *Watcher {
	w := &Watcher{
		pool:    pool,
		channel: channel,
		id:      id,
		table:   DefaultTable,
		column:  "patch",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Query returns the statement used to read the draft.
func (w *Watcher) Query() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = $1",
		pgx.Identifier{w.column}.Sanitize(),
		pgx.Identifier{w.table}.Sanitize(),
	)
}

// Watch listens for notifications and returns a channel emitting the
// draft patch. The current patch is emitted first if the row exists.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{w.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on channel %s: %w", w.channel, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer conn.Release()

		send := func(value []byte) bool {
			select {
			case out <- value:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if value, err := w.fetch(ctx); err == nil {
			if !send(value) {
				return
			}
		}

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if notification.Payload != w.id {
				continue
			}

			value, err := w.fetch(ctx)
			if err != nil {
				continue
			}
			if !send(value) {
				return
			}
		}
	}()

	return out, nil
}

// fetch reads the draft patch. A missing row yields pgx.ErrNoRows.
func (w *Watcher) fetch(ctx context.Context) ([]byte, error) {
	var value []byte
	if err := w.pool.QueryRow(ctx, w.Query(), w.id).Scan(&value); err != nil {
		return nil, err
	}
	if value == nil {
		return nil, errors.New("draft patch is null")
	}
	return value, nil
}
