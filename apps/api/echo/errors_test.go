package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/services/logger"
)

func TestAppHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantBody     string
		wantShutdown bool
	}{
		{
			name:     "not found",
			err:      errors.Wrap(meeting.ErrNotFound, "finding meeting"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"not found"}`,
		},
		{
			name:     "validation",
			err:      core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "unknown student"}),
			wantCode: http.StatusBadRequest,
			wantBody: `{"student_id":"unknown student"}`,
		},
		{
			name:     "server error",
			err:      errors.New("connection reset"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
		},
		{
			name:         "corrupted database",
			err:          errors.Wrap(core.NewShutdownError("committing meetings: pq: invalid page"), "creating meetings"),
			wantCode:     http.StatusInternalServerError,
			wantBody:     `{"error":"Internal Server Error"}`,
			wantShutdown: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var shutdown bool
			handler := newAppHTTPErrorHandler(logsvc.NewNopLogger(), NewTranslator(), func() { shutdown = true })

			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/meetings", nil), rec)
			handler(tc.err, ctx)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
			assert.Equal(t, tc.wantShutdown, shutdown)
		})
	}
}

func TestServer_signalShutdown(t *testing.T) {
	env := setup(t)
	env.app.signalShutdown()
	env.app.signalShutdown() // never blocks once a signal is pending

	select {
	case <-env.app.ShutdownSignal():
	default:
		t.Fatal("no shutdown signal")
	}
}
