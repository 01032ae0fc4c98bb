package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/preference"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/core/user"
	"github.com/mhue26/Sample-sub000/services/calendar"
	"github.com/mhue26/Sample-sub000/services/email"
	"github.com/mhue26/Sample-sub000/services/logger"
	"github.com/mhue26/Sample-sub000/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app         *Server
	usrRepo     user.Repository
	studentRepo student.Repository
	meetingRepo meeting.Repository
	periodRepo  period.Repository
}

// setup returns a server backed by a fresh in-memory database.
func setup(t *testing.T) *testEnv {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewNopLogger()
	core.ParseEmailTemplates(logger, true)

	db := inmemdb.NewDB()
	env := &testEnv{
		usrRepo:     inmemdb.NewUserRepository(db),
		studentRepo: inmemdb.NewStudentRepository(db),
		meetingRepo: inmemdb.NewMeetingRepository(db),
		periodRepo:  inmemdb.NewPeriodRepository(db),
	}

	translator := NewTranslator()
	validate := NewValidator(translator)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	studentSvc := student.NewService(env.studentRepo)
	meetingSvc := meeting.NewService(env.meetingRepo, studentSvc, validate)
	periodSvc := period.NewService(env.periodRepo)

	env.app = NewServer(conf, logger, Deps{
		Validate:      validate,
		Translator:    translator,
		UserSvc:       user.NewService(env.usrRepo, mailSvc, logger, conf),
		StudentSvc:    studentSvc,
		MeetingSvc:    meetingSvc,
		PeriodSvc:     periodSvc,
		PreferenceSvc: preference.NewService(inmemdb.NewPreferenceRepository(db)),
		CalendarSvc:   calendarsvc.NewService(conf, meetingSvc, periodSvc, studentSvc),
	})
	return env
}

func (env *testEnv) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := env.app.auth.generateToken(env.app.auth.userClaims(usr))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

// serve runs the request and returns the recorder.
func (env *testEnv) serve(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	env.app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
	}
}
