package enrollment

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/course"
)

var (
	ErrNotFound            = errors.New("enrollment not found")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrTransactionMismatch = errors.New("transaction id does not match")
	ErrInvalidTransition   = errors.New("illegal enrollment status transition")
)

type (
	Repository interface {
		// CreateEnrollment inserts the enrollment; ErrAlreadyEnrolled is
		// returned on a duplicate (email, course_id) pair (enforced by a
		// unique index on the store).
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		EnrollmentExists(ctx context.Context, email, courseID string) (bool, error)
		// QueryAllEnrollments returns all enrollments, newest first.
		QueryAllEnrollments(ctx context.Context) ([]Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id string) (Enrollment, error)
		// QueryEnrollmentsByEmail returns the user's enrollments, newest first.
		QueryEnrollmentsByEmail(ctx context.Context, email string) ([]Enrollment, error)
		UpdateEnrollmentStatus(ctx context.Context, id string, st Status) (Enrollment, error)
		UpdateEnrollmentCourseStatus(ctx context.Context, id string, st ProgressStatus) (Enrollment, error)
		UpdateEnrollmentAssignmentStatus(ctx context.Context, id string, st ProgressStatus) (Enrollment, error)
	}

	Service struct {
		repo       Repository
		courseRepo course.Repository
		mailSvc    core.EmailService
		logger     core.Logger
	}
)

func NewService(repo Repository, courseRepo course.Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:       repo,
		courseRepo: courseRepo,
		mailSvc:    mailSvc,
		logger:     logger,
	}
}

// Enroll creates a pending enrollment. The course title is snapshotted on the
// enrollment so later course edits or deletions do not rewrite history.
func (svc *Service) Enroll(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	title := ne.CourseTitle
	if title == "" {
		if crs, err := svc.courseRepo.GetCourseByID(ctx, ne.CourseID); err == nil {
			title = crs.Title
		}
	}

	now := time.Now().UTC()
	enr := Enrollment{
		UserID:           ne.UserID,
		CourseID:         ne.CourseID,
		CourseTitle:      title,
		Name:             ne.Name,
		Email:            ne.Email,
		Phone:            ne.Phone,
		Amount:           ne.Amount,
		PaymentMethod:    ne.PaymentMethod,
		TransactionID:    ne.TransactionID,
		Status:           StatusPending,
		CourseStatus:     ProgressPending,
		AssignmentStatus: ProgressPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return svc.repo.CreateEnrollment(ctx, enr)
}

func (svc *Service) Exists(ctx context.Context, email, courseID string) (bool, error) {
	return svc.repo.EnrollmentExists(ctx, core.CleanString(email, true /* lower */), courseID)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Enrollment, error) {
	return svc.repo.QueryAllEnrollments(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(ctx, id)
}

func (svc *Service) transition(ctx context.Context, id string, to Status) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	if !enr.Status.CanTransitionTo(to) {
		return Enrollment{}, core.NewValidationError(ErrInvalidTransition, core.FieldError{
			Field: "status",
			Error: fmt.Sprintf("cannot transition from %q to %q", enr.Status, to),
		})
	}
	if enr.Status == to { // no-op
		return enr, nil
	}
	return svc.repo.UpdateEnrollmentStatus(ctx, id, to)
}

// Approve honors the enrollment once the admin-supplied transaction id matches
// the one recorded at enrollment time (exact string equality). Re-approving an
// approved enrollment succeeds as a no-op.
func (svc *Service) Approve(ctx context.Context, id, adminTransactionID string) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	if enr.TransactionID != adminTransactionID {
		return Enrollment{}, core.NewValidationError(ErrTransactionMismatch, core.FieldError{
			Field: "admin_transaction_id",
			Error: ErrTransactionMismatch.Error(),
		})
	}

	wasApproved := enr.Status == StatusApproved
	enr, err = svc.transition(ctx, id, StatusApproved)
	if err != nil {
		return Enrollment{}, err
	}
	if !wasApproved {
		svc.sendApprovalEmail(enr)
	}
	return enr, nil
}

func (svc *Service) Block(ctx context.Context, id string) (Enrollment, error) {
	return svc.transition(ctx, id, StatusBlocked)
}

func (svc *Service) Unblock(ctx context.Context, id string) (Enrollment, error) {
	return svc.transition(ctx, id, StatusPending)
}

// CompleteCourse marks the student's course-completion flag. No approval
// precondition applies; pending and blocked enrollments can complete too.
func (svc *Service) CompleteCourse(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.UpdateEnrollmentCourseStatus(ctx, id, ProgressComplete)
}

func (svc *Service) StatsForUser(ctx context.Context, email string) (Stats, error) {
	enrs, err := svc.repo.QueryEnrollmentsByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: len(enrs)}
	for _, enr := range enrs {
		switch enr.Status {
		case StatusApproved:
			stats.Approved++
		case StatusBlocked:
			stats.Blocked++
		default:
			stats.Pending++
		}
	}
	return stats, nil
}

// EnrolledCourses returns the distinct courses referenced by any of the user's
// enrollments, regardless of status. Dangling course references are skipped.
func (svc *Service) EnrolledCourses(ctx context.Context, email string) ([]course.Course, error) {
	enrs, err := svc.repo.QueryEnrollmentsByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(enrs))
	courses := make([]course.Course, 0, len(enrs))
	for _, enr := range enrs {
		if seen[enr.CourseID] {
			continue
		}
		seen[enr.CourseID] = true
		crs, err := svc.courseRepo.GetCourseByID(ctx, enr.CourseID)
		if err != nil {
			if err == course.ErrNotFound {
				continue // course deleted after enrollment
			}
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

// ApprovedCoursesWithDetail returns the user's approved enrollments, newest
// first, each paired with its course. A deleted course yields a null Course
// on the pair rather than an error.
func (svc *Service) ApprovedCoursesWithDetail(ctx context.Context, email string) ([]CourseDetail, error) {
	enrs, err := svc.repo.QueryEnrollmentsByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return nil, err
	}

	details := make([]CourseDetail, 0, len(enrs))
	for _, enr := range enrs {
		if enr.Status != StatusApproved {
			continue
		}
		detail := CourseDetail{Enrollment: enr}
		if crs, err := svc.courseRepo.GetCourseByID(ctx, enr.CourseID); err == nil {
			detail.Course = &crs
		} else if err != course.ErrNotFound {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// MarkAssignmentComplete flips the enrollment's assignment flag. It is the
// second leg of a submission completion; callers retry on transient failures.
func (svc *Service) MarkAssignmentComplete(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.UpdateEnrollmentAssignmentStatus(ctx, id, ProgressComplete)
}

func (svc *Service) sendApprovalEmail(enr Enrollment) {
	if enr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: enr.Name, Address: enr.Email}},
		Subject:      "Your enrollment has been approved",
		TemplateName: "enrollment-approved",
		TemplateData: enr,
		BodyStr: fmt.Sprintf(
			"Hi %s,\r\n\r\nYour enrollment in %q has been approved. Happy learning!\r\n",
			enr.Name, enr.CourseTitle,
		),
	})
}
