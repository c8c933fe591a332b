package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/coursemaster/apps/api/echo"
	"github.com/trezcool/coursemaster/core/course"
	"github.com/trezcool/coursemaster/core/enrollment"
	"github.com/trezcool/coursemaster/core/submission"
	"github.com/trezcool/coursemaster/core/user"
	emailsvc "github.com/trezcool/coursemaster/services/email"
	"github.com/trezcool/coursemaster/storage/inmem"
	testutil "github.com/trezcool/coursemaster/tests"
)

type testApp struct {
	server  Server
	crsRepo course.Repository
	usrRepo user.Repository
	enrRepo enrollment.Repository
	subRepo submission.Repository
}

func setup(t *testing.T) testApp {
	t.Helper()

	// set up DB & repos
	db, err := inmem.Open()
	if err != nil {
		t.Fatalf("inmem.Open() failed: %v", err)
	}
	crsRepo := inmem.NewCourseRepository(db)
	usrRepo := inmem.NewUserRepository(db)
	enrRepo := inmem.NewEnrollmentRepository(db)
	subRepo := inmem.NewSubmissionRepository(db)

	// set up services
	conf := testutil.NewConfig()
	logger := testutil.NewLogger()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	enrSvc := enrollment.NewService(enrRepo, crsRepo, mailSvc, logger)

	validate, translator := testutil.NewValidator()

	// set up server
	server := NewServer(
		ServerDeps{
			Conf:           conf,
			Logger:         logger,
			CourseSvc:      course.NewService(crsRepo),
			UserSvc:        user.NewService(usrRepo),
			EnrollmentSvc:  enrSvc,
			SubmissionSvc:  submission.NewService(subRepo, enrSvc, logger),
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)
	return testApp{
		server:  server,
		crsRepo: crsRepo,
		usrRepo: usrRepo,
		enrRepo: enrRepo,
		subRepo: subRepo,
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
	wantCode int
	wantData []byte
	extra    interface{}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
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
	return assert.ObjectsAreEqual(j1, j2), nil
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

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}
