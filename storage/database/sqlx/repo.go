package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
)

// trapNoRowsErr maps psql "no rows" err to `notFound`
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return wrapDBErr(err, msg)
}

// wrapDBErr wraps `err` with `msg`. Postgres internal errors (class XX: data or index corruption)
// become shutdown errors: the API must stop serving rather than keep writing to a broken database.
func wrapDBErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code.Class() == "XX" {
		return core.NewShutdownError(msg + ": " + pqErr.Error())
	}
	return errors.Wrap(err, msg)
}

// studentOwned locks the student row of `userID` for the rest of the transaction run by `exec`,
// so it cannot be deleted or handed over while meetings are attached to it.
func studentOwned(ctx context.Context, exec core.DBExecutor, userID, studentID string) (bool, error) {
	if !isUUID(studentID) {
		return false, nil
	}
	var id string
	err := exec.QueryRowContext(ctx, `SELECT id FROM student WHERE id = $1 AND user_id = $2 FOR SHARE`, studentID, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrapDBErr(err, "locking student")
	}
	return true, nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// where accumulates AND-ed conditions written with `?` placeholders.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, "("+cond+")")
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// orderBy renders `ordering`. Fields are column names, already checked by core.AllowedOrderings.
func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}
