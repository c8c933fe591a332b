package user_test

import (
	"context"
	"testing"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/user"
	"github.com/trezcool/coursemaster/storage/inmem"
	testutil "github.com/trezcool/coursemaster/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	db, err := inmem.Open()
	if err != nil {
		t.Fatalf("inmem.Open() failed: %v", err)
	}
	repo := inmem.NewUserRepository(db)
	return user.NewService(repo), repo
}

func TestService_Register(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	usr, err := svc.Register(ctx, user.NewUser{
		Name:     "Awe Mbuta",
		Email:    "awe@test.cd",
		Password: "s3cretWord!",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if usr.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if usr.Role != user.RoleStudent {
		t.Errorf("Role = %q; want %q", usr.Role, user.RoleStudent)
	}
	if err = usr.CheckPassword("s3cretWord!"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}

	// the account is retrievable by ID and by email
	if got, err := svc.GetByID(ctx, usr.ID); err != nil || got.Email != usr.Email {
		t.Errorf("GetByID() = (%+v, %v); want the registered account", got, err)
	}
	if got, err := svc.GetByEmail(ctx, " AWE@test.cd "); err != nil || got.ID != usr.ID {
		t.Errorf("GetByEmail() = (%+v, %v); want the registered account", got, err)
	}

	// duplicate email
	_, err = svc.Register(ctx, user.NewUser{
		Name:     "Other Awe",
		Email:    "awe@test.cd",
		Password: "an0therWord!",
	})
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Register() error = %v (%T); want *core.ValidationError", err, err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
		t.Errorf("Fields = %+v; want a single email error", vErr.Fields)
	}

	// still exactly one record
	users, err := repo.QueryAllUsers(ctx)
	if err != nil {
		t.Fatalf("QueryAllUsers() failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len(users) = %d; want 1", len(users))
	}
}

func TestNewUser_Validate_passwordPolicy(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name    string
		pwd     string
		wantErr bool
	}{
		{name: "valid", pwd: "s3cretWord!"},
		{name: "too short", pwd: "s3cW!", wantErr: true},
		{name: "whitespace", pwd: "s3cret Word!", wantErr: true},
		{name: "all numeric", pwd: "123456789", wantErr: true},
		{name: "no special char", pwd: "s3cretWord", wantErr: true},
		{name: "no uppercase", pwd: "s3cretword!", wantErr: true},
		{name: "no digit", pwd: "secretWord!", wantErr: true},
		{name: "similar to email", pwd: "Awe@test.cd1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := user.NewUser{
				Name:     "Awe Mbuta",
				Email:    "awe@test.cd",
				Password: tt.pwd,
			}
			err := nu.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}
