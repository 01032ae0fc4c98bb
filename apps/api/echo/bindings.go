package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mhue26/Sample-sub000/core"
)

const orderingParam = "ordering"

// Ordering binds `?ordering=field,-other` to DB orderings; a leading "-" means descending.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindQuery binds query params only; echo's Bind skips them on POST/PUT/DELETE.
func bindQuery(ctx echo.Context, dest interface{}) error {
	return (&echo.DefaultBinder{}).BindQueryParams(ctx, dest)
}
