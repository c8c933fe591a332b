package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/trezcool/coursemaster/core/user"
)

func TestUserRegister(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad email",
			body:     []byte(`{"name": "Awe Mbuta", "email": "lol", "password": "s3cretWord!"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "weak password",
			body:     []byte(`{"name": "Awe Mbuta", "email": "awe@test.cd", "password": "password"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "ok",
			body:     []byte(`{"name": "Awe Mbuta", "email": "awe@test.cd", "password": "s3cretWord!"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate email",
			body:     []byte(`{"name": "Other Awe", "email": "awe@test.cd", "password": "an0therWord!"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/register", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var usr user.User
				decodeBody(t, rec, &usr)
				if usr.ID == "" {
					t.Error("registered user has no ID")
				}
				if usr.Role != user.RoleStudent {
					t.Errorf("Role = %q; want %q", usr.Role, user.RoleStudent)
				}
				if strings.Contains(rec.Body.String(), "password") {
					t.Errorf("response leaks password material: %s", rec.Body.String())
				}
			}
		})
	}

	// the duplicate attempt did not create a second record
	users, err := app.usrRepo.QueryAllUsers(context.Background())
	if err != nil {
		t.Fatalf("QueryAllUsers() failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len(users) = %d; want 1", len(users))
	}
}
