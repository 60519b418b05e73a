package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	echoapi "github.com/shulehq/shule/apps/api/echo"
	"github.com/shulehq/shule/apps/api/echo/helpers"
	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/academic"
	"github.com/shulehq/shule/core/course"
	"github.com/shulehq/shule/core/exam"
	"github.com/shulehq/shule/core/professor"
	"github.com/shulehq/shule/core/student"
	dummymail "github.com/shulehq/shule/services/email/dummy"
	dummydb "github.com/shulehq/shule/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server       echoapi.Server
	studentSvc   *student.Service
	professorSvc *professor.Service
	courseSvc    *course.Service
	academicSvc  *academic.Service
	examSvc      *exam.Service
	mailSvc      *dummymail.Service
}

// newTestApp wires a full server on top of fresh in-memory repositories so
// every test starts from an empty record store.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}

	conf := &core.Config{
		TestMode:  true,
		AppName:   "Shule",
		SecretKey: []byte("t3st-s3cret"),
		JWT: core.JWTConfig{
			ExpirationDelta:        7 * 24 * time.Hour,
			RefreshExpirationDelta: 4 * time.Hour,
		},
	}

	mailSvc := dummymail.NewService()
	studentSvc := student.NewService(dummydb.NewStudentRepository(db))
	professorSvc := professor.NewService(dummydb.NewProfessorRepository(db))
	courseSvc := course.NewService(dummydb.NewCourseRepository(db))
	academicSvc := academic.NewService(dummydb.NewAcademicRepository(db), studentSvc, mailSvc)
	examSvc := exam.NewService(dummydb.NewExamRepository(db))

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		StudentSvc:     studentSvc,
		ProfessorSvc:   professorSvc,
		CourseSvc:      courseSvc,
		AcademicSvc:    academicSvc,
		ExamSvc:        examSvc,
		DisableReqLogs: true,
	})

	return &testApp{
		server:       app,
		studentSvc:   studentSvc,
		professorSvc: professorSvc,
		courseSvc:    courseSvc,
		academicSvc:  academicSvc,
		examSvc:      examSvc,
		mailSvc:      mailSvc,
	}
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

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr exam.User) string {
	t.Helper()
	token, err := helpers.GenerateToken(helpers.GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func marshalList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshalList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
