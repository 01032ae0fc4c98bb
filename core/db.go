package core

import (
	"context"
	"database/sql"
	"regexp"
)

type (
	DBExecutor interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DB interface {
		DBExecutor

		PingContext(ctx context.Context) error
		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
		Close() error
	}
)

var orderingFieldRegex = regexp.MustCompile(`^[a-z_]+$`)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// AllowedOrderings keeps the orderings whose field is part of `fields`.
func AllowedOrderings(orderings []DBOrdering, fields ...string) []DBOrdering {
	if len(orderings) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		allowed[f] = struct{}{}
	}
	kept := make([]DBOrdering, 0, len(orderings))
	for _, ord := range orderings {
		if !orderingFieldRegex.MatchString(ord.Field) {
			continue
		}
		if _, ok := allowed[ord.Field]; ok {
			kept = append(kept, ord)
		}
	}
	return kept
}
