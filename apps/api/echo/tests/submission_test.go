package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/coursemaster/core/enrollment"
	"github.com/trezcool/coursemaster/core/submission"
	testutil "github.com/trezcool/coursemaster/tests"
)

func TestAssignmentSubmit(t *testing.T) {
	app := setup(t)

	enr := testutil.CreateEnrollment(t, app.enrRepo, "Awe", "awe@test.cd", "c1", "Go", "TX1", enrollment.StatusApproved)

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad submit link",
			body:     []byte(fmt.Sprintf(`{"enrollment_id": %q, "assignment_title": "CLI", "assignment_details": "done", "student_submit_link": "lol"}`, enr.ID)),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "ok",
			body:     []byte(fmt.Sprintf(`{"enrollment_id": %q, "assignment_title": "CLI", "assignment_details": "done", "student_submit_link": "https://github.com/awe/cli"}`, enr.ID)),
			wantCode: http.StatusCreated,
		},
		{
			name:     "repeat submission is allowed",
			body:     []byte(fmt.Sprintf(`{"enrollment_id": %q, "assignment_title": "CLI", "assignment_details": "second attempt"}`, enr.ID)),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/assignment/submit", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var sub submission.Submission
				decodeBody(t, rec, &sub)
				if sub.ID == "" {
					t.Error("submission has no ID")
				}
				if sub.Status != submission.StatusPending {
					t.Errorf("Status = %q; want %q", sub.Status, submission.StatusPending)
				}
			}
		})
	}
}

func TestAssignmentSubmissions(t *testing.T) {
	app := setup(t)

	t.Run("empty", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: []byte(`{"total": 0, "submissions": []}`)}
		req, rec := newRequest(http.MethodGet, "/v1/assignment/submissions")
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("lists all", func(t *testing.T) {
		sub1 := testutil.CreateSubmission(t, app.subRepo, "e1", "CLI")
		sub2 := testutil.CreateSubmission(t, app.subRepo, "e2", "API")

		req, rec := newRequest(http.MethodGet, "/v1/assignment/submissions")
		app.server.ServeHTTP(rec, req)

		var resp struct {
			Total       int                     `json:"total"`
			Submissions []submission.Submission `json:"submissions"`
		}
		decodeBody(t, rec, &resp)
		if resp.Total != 2 || len(resp.Submissions) != 2 {
			t.Fatalf("resp = %+v; want 2 submissions", resp)
		}
		seen := map[string]bool{}
		for _, sub := range resp.Submissions {
			seen[sub.ID] = true
		}
		if !seen[sub1.ID] || !seen[sub2.ID] {
			t.Errorf("submissions = %+v; want both seeded ones", resp.Submissions)
		}
	})
}

func TestAssignmentComplete(t *testing.T) {
	app := setup(t)

	enr := testutil.CreateEnrollment(t, app.enrRepo, "Awe", "awe@test.cd", "c1", "Go", "TX1", enrollment.StatusApproved)
	sub := testutil.CreateSubmission(t, app.subRepo, enr.ID, "CLI")

	t.Run("not found", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		req, rec := newRequest(http.MethodPut, "/v1/assignment/complete/nope")
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/v1/assignment/complete/"+sub.ID)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got submission.Submission
		decodeBody(t, rec, &got)
		if got.Status != submission.StatusComplete {
			t.Errorf("Status = %q; want %q", got.Status, submission.StatusComplete)
		}

		// the parent enrollment's assignment flag flipped too
		refreshed, err := app.enrRepo.GetEnrollmentByID(context.Background(), enr.ID)
		if err != nil {
			t.Fatalf("GetEnrollmentByID() failed: %v", err)
		}
		if refreshed.AssignmentStatus != enrollment.ProgressComplete {
			t.Errorf("AssignmentStatus = %q; want %q", refreshed.AssignmentStatus, enrollment.ProgressComplete)
		}
	})
}
