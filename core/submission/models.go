package submission

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursemaster/core"
)

// Status tracks a submission's lifecycle: pending until an admin marks it
// complete; complete is terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
)

type Submission struct {
	ID                string    `json:"id"`
	EnrollmentID      string    `json:"enrollment_id"`
	AssignmentTitle   string    `json:"assignment_title"`
	AssignmentDetails string    `json:"assignment_details"`
	AssignmentLink    string    `json:"assignment_link"` // instructor-provided; optional
	StudentSubmitLink string    `json:"student_submit_link"`
	Status            Status    `json:"status"`
	SubmittedAt       time.Time `json:"submitted_at"` // UTC
	UpdatedAt         time.Time `json:"updated_at"`   // UTC
}

// NewSubmission contains information needed to submit an assignment.
// A student may submit multiple times for the same enrollment.
type NewSubmission struct {
	EnrollmentID      string `json:"enrollment_id" validate:"required"`
	AssignmentTitle   string `json:"assignment_title" validate:"required"`
	AssignmentDetails string `json:"assignment_details" validate:"required"`
	AssignmentLink    string `json:"assignment_link" validate:"omitempty,url"`
	StudentSubmitLink string `json:"student_submit_link" validate:"omitempty,url"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.AssignmentTitle = core.CleanString(ns.AssignmentTitle)
	return validate.Struct(ns)
}
