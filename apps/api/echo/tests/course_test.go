package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/coursemaster/core/course"
	testutil "github.com/trezcool/coursemaster/tests"
)

func TestHome(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusOK)
	}
	if want := "CourseMaster Backend is Running..."; rec.Body.String() != want {
		t.Errorf("body = %q; want %q", rec.Body.String(), want)
	}
}

func TestCourseCreate(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing instructor",
			body:     []byte(`{"title": "Go from Scratch", "description": "a gentle intro"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "negative price",
			body:     []byte(`{"title": "Go from Scratch", "description": "a gentle intro", "instructor": "Rob", "price": -5}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad thumbnail url",
			body:     []byte(`{"title": "Go from Scratch", "description": "a gentle intro", "instructor": "Rob", "thumbnail": "lol"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "batch with special chars",
			body:     []byte(`{"title": "Go from Scratch", "description": "a gentle intro", "instructor": "Rob", "batch": "2026#1"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"batch": "only alphanumeric characters and underscores are allowed"}`),
		},
		{
			name: "ok",
			body: []byte(`{
				"title": "Go from Scratch",
				"description": "a gentle intro",
				"instructor": "Rob",
				"price": 1500,
				"category": "programming",
				"lessons": ["https://lessons.test/1"],
				"assignments": [{"title": "CLI", "description": "build one"}]
			}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/create-course", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var crs course.Course
				decodeBody(t, rec, &crs)
				if crs.ID == "" {
					t.Error("created course has no ID")
				}
				if crs.Title != "Go from Scratch" {
					t.Errorf("Title = %q", crs.Title)
				}
			}
		})
	}
}

func TestCourseQuery(t *testing.T) {
	app := setup(t)

	t.Run("empty", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: []byte(`{"total": 0, "courses": []}`)}
		req, rec := newRequest(http.MethodGet, "/v1/courses")
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("newest first", func(t *testing.T) {
		now := time.Now().UTC()
		old := testutil.CreateCourse(t, app.crsRepo, "Go from Scratch", "Rob", 1500, now.Add(-time.Hour))
		recent := testutil.CreateCourse(t, app.crsRepo, "Advanced Go", "Ken", 2500, now)

		req, rec := newRequest(http.MethodGet, "/v1/courses")
		app.server.ServeHTTP(rec, req)

		var resp struct {
			Total   int             `json:"total"`
			Courses []course.Course `json:"courses"`
		}
		decodeBody(t, rec, &resp)
		if resp.Total != 2 || len(resp.Courses) != 2 {
			t.Fatalf("resp = %+v; want 2 courses", resp)
		}
		if resp.Courses[0].ID != recent.ID || resp.Courses[1].ID != old.ID {
			t.Errorf("courses not newest first: %q, %q", resp.Courses[0].Title, resp.Courses[1].Title)
		}
	})
}

func TestCourseRetrieve(t *testing.T) {
	app := setup(t)

	crs := testutil.CreateCourse(t, app.crsRepo, "Go from Scratch", "Rob", 1500)

	tests := []httpTest{
		{
			name:     "not found",
			path:     "/v1/course/nope",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "ok",
			path:     "/v1/course/" + crs.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, crs),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestCourseUpdate(t *testing.T) {
	app := setup(t)

	crs := testutil.CreateCourse(t, app.crsRepo, "Go from Scratch", "Rob", 1500)

	t.Run("not found", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		req, rec := newRequest(http.MethodPut, "/v1/course/nope", []byte(`{"title": "nope"}`))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("partial update keeps absent fields", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/v1/course/"+crs.ID, []byte(`{"price": 2000}`))
		app.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got course.Course
		decodeBody(t, rec, &got)
		if got.Price != 2000 {
			t.Errorf("Price = %v; want 2000", got.Price)
		}
		if got.Title != crs.Title || got.Instructor != crs.Instructor {
			t.Error("absent fields were overwritten")
		}
	})

	t.Run("present empty field clears the stored value", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/v1/course/"+crs.ID, []byte(`{"category": ""}`))
		app.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got course.Course
		decodeBody(t, rec, &got)
		if got.Category != "" {
			t.Errorf("Category = %q; want cleared", got.Category)
		}
		if got.Title != crs.Title {
			t.Error("absent fields were overwritten")
		}
	})
}

func TestCourseDelete(t *testing.T) {
	app := setup(t)

	crs := testutil.CreateCourse(t, app.crsRepo, "Go from Scratch", "Rob", 1500)

	t.Run("ok returns deleted course", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, crs)}
		req, rec := newRequest(http.MethodDelete, "/v1/course/"+crs.ID)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("gone afterwards", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		req, rec := newRequest(http.MethodDelete, "/v1/course/"+crs.ID)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
