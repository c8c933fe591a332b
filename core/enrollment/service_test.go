package enrollment_test

import (
	"context"
	"testing"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/course"
	"github.com/trezcool/coursemaster/core/enrollment"
	emailsvc "github.com/trezcool/coursemaster/services/email"
	"github.com/trezcool/coursemaster/storage/inmem"
	testutil "github.com/trezcool/coursemaster/tests"
)

func setup(t *testing.T) (*enrollment.Service, enrollment.Repository, course.Repository) {
	t.Helper()
	db, err := inmem.Open()
	if err != nil {
		t.Fatalf("inmem.Open() failed: %v", err)
	}
	repo := inmem.NewEnrollmentRepository(db)
	courseRepo := inmem.NewCourseRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(testutil.NewConfig())
	svc := enrollment.NewService(repo, courseRepo, mailSvc, testutil.NewLogger())
	return svc, repo, courseRepo
}

func checkInvalidTransition(t *testing.T, err error) {
	t.Helper()
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("error = %v (%T); want *core.ValidationError", err, err)
	}
	if vErr.Err != enrollment.ErrInvalidTransition {
		t.Errorf("cause = %v; want %v", vErr.Err, enrollment.ErrInvalidTransition)
	}
}

func TestService_Enroll(t *testing.T) {
	svc, _, courseRepo := setup(t)
	ctx := context.Background()

	crs := testutil.CreateCourse(t, courseRepo, "Go from Scratch", "Rob", 1500)

	enr, err := svc.Enroll(ctx, enrollment.NewEnrollment{
		CourseID:      crs.ID,
		Name:          "Awe Mbuta",
		Email:         "awe@test.cd",
		Amount:        1500,
		PaymentMethod: "bkash",
		TransactionID: "TX123",
	})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	if enr.ID == "" {
		t.Error("Enroll() did not assign an ID")
	}
	if enr.CourseTitle != crs.Title {
		t.Errorf("CourseTitle = %q; want snapshot %q", enr.CourseTitle, crs.Title)
	}
	if enr.Status != enrollment.StatusPending {
		t.Errorf("Status = %q; want %q", enr.Status, enrollment.StatusPending)
	}
	if enr.CourseStatus != enrollment.ProgressPending || enr.AssignmentStatus != enrollment.ProgressPending {
		t.Errorf("progress = (%q, %q); want both %q", enr.CourseStatus, enr.AssignmentStatus, enrollment.ProgressPending)
	}

	// same (email, course) again
	if _, err = svc.Enroll(ctx, enrollment.NewEnrollment{
		CourseID:      crs.ID,
		Name:          "Awe Mbuta",
		Email:         "awe@test.cd",
		TransactionID: "TX124",
	}); err != enrollment.ErrAlreadyEnrolled {
		t.Errorf("Enroll() error = %v; want %v", err, enrollment.ErrAlreadyEnrolled)
	}

	// same student, another course is fine
	crs2 := testutil.CreateCourse(t, courseRepo, "Advanced Go", "Ken", 2500)
	if _, err = svc.Enroll(ctx, enrollment.NewEnrollment{
		CourseID: crs2.ID,
		Name:     "Awe Mbuta",
		Email:    "awe@test.cd",
	}); err != nil {
		t.Errorf("Enroll() failed: %v", err)
	}

	exists, err := svc.Exists(ctx, "awe@test.cd", crs.ID)
	if err != nil {
		t.Fatalf("Exists() failed: %v", err)
	}
	if !exists {
		t.Error("Exists() = false; want true")
	}
}

func TestService_Approve(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	sentBefore := len(emailsvc.SentMessages)

	enr := testutil.CreateEnrollment(t, repo, "Awe Mbuta", "awe@test.cd", "c1", "Go from Scratch", "TX123", enrollment.StatusPending)

	// wrong transaction id
	_, err := svc.Approve(ctx, enr.ID, "NOPE")
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Approve() error = %v (%T); want *core.ValidationError", err, err)
	}
	if vErr.Err != enrollment.ErrTransactionMismatch {
		t.Errorf("cause = %v; want %v", vErr.Err, enrollment.ErrTransactionMismatch)
	}
	if got, _ := svc.GetByID(ctx, enr.ID); got.Status != enrollment.StatusPending {
		t.Errorf("Status = %q after mismatch; want %q", got.Status, enrollment.StatusPending)
	}

	// matching transaction id
	approved, err := svc.Approve(ctx, enr.ID, "TX123")
	if err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	if approved.Status != enrollment.StatusApproved {
		t.Errorf("Status = %q; want %q", approved.Status, enrollment.StatusApproved)
	}
	if sent := len(emailsvc.SentMessages) - sentBefore; sent != 1 {
		t.Errorf("sent %d approval emails; want 1", sent)
	}

	// re-approve is a no-op; no second email
	if _, err = svc.Approve(ctx, enr.ID, "TX123"); err != nil {
		t.Fatalf("Approve() re-approve failed: %v", err)
	}
	if sent := len(emailsvc.SentMessages) - sentBefore; sent != 1 {
		t.Errorf("sent %d approval emails after re-approve; want 1", sent)
	}

	// not found
	if _, err = svc.Approve(ctx, "nope", "TX123"); err != enrollment.ErrNotFound {
		t.Errorf("Approve() error = %v; want %v", err, enrollment.ErrNotFound)
	}
}

func TestService_BlockUnblock(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	enr := testutil.CreateEnrollment(t, repo, "Awe Mbuta", "awe@test.cd", "c1", "Go from Scratch", "TX123", enrollment.StatusPending)

	blocked, err := svc.Block(ctx, enr.ID)
	if err != nil {
		t.Fatalf("Block() failed: %v", err)
	}
	if blocked.Status != enrollment.StatusBlocked {
		t.Errorf("Status = %q; want %q", blocked.Status, enrollment.StatusBlocked)
	}

	// approving a blocked enrollment is illegal
	_, err = svc.Approve(ctx, enr.ID, "TX123")
	checkInvalidTransition(t, err)

	unblocked, err := svc.Unblock(ctx, enr.ID)
	if err != nil {
		t.Fatalf("Unblock() failed: %v", err)
	}
	if unblocked.Status != enrollment.StatusPending {
		t.Errorf("Status = %q; want %q", unblocked.Status, enrollment.StatusPending)
	}

	// approved is terminal
	if _, err = svc.Approve(ctx, enr.ID, "TX123"); err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	_, err = svc.Block(ctx, enr.ID)
	checkInvalidTransition(t, err)
	_, err = svc.Unblock(ctx, enr.ID)
	checkInvalidTransition(t, err)
}

func TestService_CompleteCourse(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	// approval is not a precondition
	enr := testutil.CreateEnrollment(t, repo, "Awe Mbuta", "awe@test.cd", "c1", "Go from Scratch", "TX123", enrollment.StatusPending)

	got, err := svc.CompleteCourse(ctx, enr.ID)
	if err != nil {
		t.Fatalf("CompleteCourse() failed: %v", err)
	}
	if got.CourseStatus != enrollment.ProgressComplete {
		t.Errorf("CourseStatus = %q; want %q", got.CourseStatus, enrollment.ProgressComplete)
	}
	if got.Status != enrollment.StatusPending {
		t.Errorf("Status = %q; want it untouched", got.Status)
	}

	if _, err = svc.CompleteCourse(ctx, "nope"); err != enrollment.ErrNotFound {
		t.Errorf("CompleteCourse() error = %v; want %v", err, enrollment.ErrNotFound)
	}
}

func TestService_StatsForUser(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", "c1", "Go", "TX1", enrollment.StatusPending)
	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", "c2", "SQL", "TX2", enrollment.StatusApproved)
	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", "c3", "K8s", "TX3", enrollment.StatusApproved)
	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", "c4", "Vim", "TX4", enrollment.StatusBlocked)
	testutil.CreateEnrollment(t, repo, "Ben", "ben@test.cd", "c1", "Go", "TX5", enrollment.StatusPending)

	stats, err := svc.StatsForUser(ctx, "awe@test.cd")
	if err != nil {
		t.Fatalf("StatsForUser() failed: %v", err)
	}
	want := enrollment.Stats{Total: 4, Pending: 1, Approved: 2, Blocked: 1}
	if stats != want {
		t.Errorf("StatsForUser() = %+v; want %+v", stats, want)
	}
	if stats.Pending+stats.Approved+stats.Blocked != stats.Total {
		t.Errorf("stats do not add up: %+v", stats)
	}

	if stats, err = svc.StatsForUser(ctx, "nobody@test.cd"); err != nil || stats.Total != 0 {
		t.Errorf("StatsForUser() = %+v, %v; want zero stats", stats, err)
	}
}

func TestService_EnrolledCourses(t *testing.T) {
	svc, repo, courseRepo := setup(t)
	ctx := context.Background()

	crs1 := testutil.CreateCourse(t, courseRepo, "Go from Scratch", "Rob", 1500)
	crs2 := testutil.CreateCourse(t, courseRepo, "Advanced Go", "Ken", 2500)

	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", crs1.ID, crs1.Title, "TX1", enrollment.StatusApproved)
	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", crs2.ID, crs2.Title, "TX2", enrollment.StatusPending)
	// dangling course reference
	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", "gone", "Deleted Course", "TX3", enrollment.StatusApproved)

	courses, err := svc.EnrolledCourses(ctx, "awe@test.cd")
	if err != nil {
		t.Fatalf("EnrolledCourses() failed: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("len(courses) = %d; want 2", len(courses))
	}
	seen := make(map[string]bool, len(courses))
	for _, crs := range courses {
		seen[crs.ID] = true
	}
	if !seen[crs1.ID] || !seen[crs2.ID] {
		t.Errorf("courses = %+v; want %q and %q", courses, crs1.Title, crs2.Title)
	}
}

func TestService_ApprovedCoursesWithDetail(t *testing.T) {
	svc, repo, courseRepo := setup(t)
	ctx := context.Background()

	crs := testutil.CreateCourse(t, courseRepo, "Go from Scratch", "Rob", 1500)

	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", crs.ID, crs.Title, "TX1", enrollment.StatusApproved)
	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", "gone", "Deleted Course", "TX2", enrollment.StatusApproved)
	testutil.CreateEnrollment(t, repo, "Awe", "awe@test.cd", "c3", "Pending Course", "TX3", enrollment.StatusPending)

	details, err := svc.ApprovedCoursesWithDetail(ctx, "awe@test.cd")
	if err != nil {
		t.Fatalf("ApprovedCoursesWithDetail() failed: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("len(details) = %d; want 2 (approved only)", len(details))
	}
	for _, d := range details {
		switch d.Enrollment.CourseID {
		case crs.ID:
			if d.Course == nil || d.Course.ID != crs.ID {
				t.Errorf("Course = %+v; want %q", d.Course, crs.ID)
			}
		case "gone":
			if d.Course != nil {
				t.Errorf("Course = %+v for a deleted course; want nil", d.Course)
			}
		default:
			t.Errorf("unexpected enrollment %+v", d.Enrollment)
		}
	}
}
