package inmemdb

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/preference"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/core/user"
)

// DB holds every table behind a single lock, so multi-row writes are atomic.
type DB struct {
	mutex       sync.RWMutex
	users       map[string]*user.User
	students    map[string]*student.Student
	meetings    map[string]*meeting.Meeting
	terms       map[string]*period.Term
	holidays    map[string]*period.Holiday
	preferences map[string]*preference.Preferences
}

func NewDB() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		students:    make(map[string]*student.Student),
		meetings:    make(map[string]*meeting.Meeting),
		terms:       make(map[string]*period.Term),
		holidays:    make(map[string]*period.Holiday),
		preferences: make(map[string]*preference.Preferences),
	}
}

func newID() string {
	return uuid.New().String()
}

// cascade removes the rows owned by the deleted students. Caller holds the write lock.
func (db *DB) cascadeStudents(ids ...string) {
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	for id, m := range db.meetings {
		if _, ok := gone[m.StudentID]; ok {
			delete(db.meetings, id)
		}
	}
}

// cascadeUsers removes everything owned by the deleted users. Caller holds the write lock.
func (db *DB) cascadeUsers(ids ...string) {
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
		delete(db.preferences, id)
	}
	for id, s := range db.students {
		if _, ok := gone[s.UserID]; ok {
			delete(db.students, id)
		}
	}
	for id, m := range db.meetings {
		if _, ok := gone[m.UserID]; ok {
			delete(db.meetings, id)
		}
	}
	for id, t := range db.terms {
		if _, ok := gone[t.UserID]; ok {
			delete(db.terms, id)
		}
	}
	for id, h := range db.holidays {
		if _, ok := gone[h.UserID]; ok {
			delete(db.holidays, id)
		}
	}
}

// compare returns -1, 0 or 1. Strings compare case-insensitively.
func compare(a, b interface{}) int {
	switch x := a.(type) {
	case string:
		return strings.Compare(strings.ToLower(x), strings.ToLower(b.(string)))
	case int:
		y := b.(int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case bool:
		y := b.(bool)
		switch {
		case !x && y:
			return -1
		case x && !y:
			return 1
		}
	case time.Time:
		y := b.(time.Time)
		switch {
		case x.Before(y):
			return -1
		case x.After(y):
			return 1
		}
	case core.Date:
		y := b.(core.Date)
		switch {
		case x.Before(y):
			return -1
		case x.After(y):
			return 1
		}
	}
	return 0
}

// sortRows sorts rows by `ordering`, using `value` to read a row's field.
// Rows equal on every ordering field keep their relative order.
func sortRows(n int, swapper interface{}, ordering []core.DBOrdering, value func(i int, field string) interface{}) {
	if len(ordering) == 0 || n < 2 {
		return
	}
	sort.SliceStable(swapper, func(i, j int) bool {
		for _, ord := range ordering {
			c := compare(value(i, ord.Field), value(j, ord.Field))
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
