package testutil

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/course"
	"github.com/trezcool/coursemaster/core/enrollment"
	"github.com/trezcool/coursemaster/core/submission"
	"github.com/trezcool/coursemaster/core/user"
)

// NewConfig returns the app configuration tuned for tests.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	return conf
}

// NewLogger returns a core.Logger that writes to stdout only.
func NewLogger() core.Logger { return logger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)} }

type logger struct {
	std *log.Logger
}

func (l logger) Enable(bool) {}

func (l logger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l logger) Debug(msg string, args ...interface{}) { l.print(msg, args) }
func (l logger) Info(msg string, args ...interface{})  { l.print(msg, args) }
func (l logger) Warn(msg string, args ...interface{})  { l.print(msg, args) }
func (l logger) Error(msg string, args ...interface{}) { l.print(msg, args) }
func (l logger) Fatal(msg string, args ...interface{}) { l.print(msg, args); os.Exit(1) }

// NewValidator returns a Validate and its translator with all custom
// validations and translations registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	lang := en.New()
	uni := ut.New(lang, lang)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	registeredAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(registeredAt) > 0 {
		tstamp = registeredAt[0].UTC()
	}
	usr := user.User{
		Name:         name,
		Email:        email,
		Role:         role,
		RegisteredAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	title, instructor string,
	price float64,
	createdAt ...time.Time,
) course.Course {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	crs := course.Course{
		Title:       title,
		Description: title + " description",
		Instructor:  instructor,
		Price:       price,
		Category:    "programming",
		Assignments: []course.Assignment{
			{Title: title + " assignment", Description: "build something"},
		},
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	crs, err := repo.CreateCourse(context.Background(), crs)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateEnrollment(
	t *testing.T,
	repo enrollment.Repository,
	name, email, courseID, courseTitle, transactionID string,
	status enrollment.Status,
	createdAt ...time.Time,
) enrollment.Enrollment {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	enr := enrollment.Enrollment{
		CourseID:         courseID,
		CourseTitle:      courseTitle,
		Name:             name,
		Email:            email,
		Amount:           1500,
		PaymentMethod:    "bkash",
		TransactionID:    transactionID,
		Status:           status,
		CourseStatus:     enrollment.ProgressPending,
		AssignmentStatus: enrollment.ProgressPending,
		CreatedAt:        tstamp,
		UpdatedAt:        tstamp,
	}
	enr, err := repo.CreateEnrollment(context.Background(), enr)
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

func CreateSubmission(
	t *testing.T,
	repo submission.Repository,
	enrollmentID, title string,
	submittedAt ...time.Time,
) submission.Submission {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(submittedAt) > 0 {
		tstamp = submittedAt[0].UTC()
	}
	sub := submission.Submission{
		EnrollmentID:      enrollmentID,
		AssignmentTitle:   title,
		AssignmentDetails: "see attached repository",
		Status:            submission.StatusPending,
		SubmittedAt:       tstamp,
		UpdatedAt:         tstamp,
	}
	sub, err := repo.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}
