package enrollment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/course"
)

// Status is the admin-controlled gate on whether an enrollment is honored.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusBlocked  Status = "blocked"
)

// transitions holds the legal Status transitions. Re-applying the current
// status is always allowed as a no-op; there is no path out of approved.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusBlocked},
	StatusBlocked:  {StatusPending},
	StatusApproved: {},
}

// CanTransitionTo reports whether s -> to is a legal transition.
func (s Status) CanTransitionTo(to Status) bool {
	if s == to {
		return true
	}
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// ProgressStatus tracks course/assignment completion on an enrollment.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressComplete ProgressStatus = "complete"
)

type Enrollment struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	CourseID         string         `json:"course_id"`
	CourseTitle      string         `json:"course_title"` // snapshot at enrollment time
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	Amount           float64        `json:"amount"`
	PaymentMethod    string         `json:"payment_method"`
	TransactionID    string         `json:"transaction_id"`
	Status           Status         `json:"status"`
	CourseStatus     ProgressStatus `json:"course_status"`
	AssignmentStatus ProgressStatus `json:"assignment_status"`
	CreatedAt        time.Time      `json:"created_at"` // UTC
	UpdatedAt        time.Time      `json:"updated_at"` // UTC
}

// NewEnrollment contains information needed to enroll a student in a course.
type NewEnrollment struct {
	UserID        string  `json:"user_id"`
	CourseID      string  `json:"course_id" validate:"required"`
	CourseTitle   string  `json:"course_title"`
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Email = core.CleanString(ne.Email, true /* lower */)
	ne.TransactionID = core.CleanString(ne.TransactionID)
	return validate.Struct(ne)
}

// Stats aggregates a user's enrollments by status.
// Pending + Approved + Blocked always equals Total.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Blocked  int `json:"blocked"`
}

// CourseDetail pairs an enrollment with its resolved course.
// Course is null when the referenced course was deleted after enrollment.
type CourseDetail struct {
	Enrollment Enrollment     `json:"enrollment"`
	Course     *course.Course `json:"course"`
}
