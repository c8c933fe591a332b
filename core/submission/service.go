package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/enrollment"
)

var ErrNotFound = errors.New("submission not found")

// enrollmentUpdateAttempts bounds the retry of the second write in MarkComplete.
const enrollmentUpdateAttempts = 3

type (
	Repository interface {
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		// QueryAllSubmissions returns all submissions, newest first.
		QueryAllSubmissions(ctx context.Context) ([]Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		UpdateSubmissionStatus(ctx context.Context, id string, st Status) (Submission, error)
	}

	Service struct {
		repo   Repository
		enrSvc *enrollment.Service
		logger core.Logger
	}
)

func NewService(repo Repository, enrSvc *enrollment.Service, logger core.Logger) *Service {
	return &Service{repo: repo, enrSvc: enrSvc, logger: logger}
}

func (svc *Service) Submit(ctx context.Context, ns NewSubmission) (Submission, error) {
	now := time.Now().UTC()
	sub := Submission{
		EnrollmentID:      ns.EnrollmentID,
		AssignmentTitle:   ns.AssignmentTitle,
		AssignmentDetails: ns.AssignmentDetails,
		AssignmentLink:    ns.AssignmentLink,
		StudentSubmitLink: ns.StudentSubmitLink,
		Status:            StatusPending,
		SubmittedAt:       now,
		UpdatedAt:         now,
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Submission, error) {
	return svc.repo.QueryAllSubmissions(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Submission, error) {
	return svc.repo.GetSubmissionByID(ctx, id)
}

// MarkComplete sets the submission complete, then flips the parent
// enrollment's assignment flag. The two writes span two documents with no
// transaction; the second is idempotent and retried a few times on transient
// failures. A missing parent enrollment is logged and tolerated; the
// submission stays complete against a dangling reference.
func (svc *Service) MarkComplete(ctx context.Context, id string) (Submission, error) {
	sub, err := svc.repo.UpdateSubmissionStatus(ctx, id, StatusComplete)
	if err != nil {
		return Submission{}, err
	}

	for attempt := 1; ; attempt++ {
		_, err = svc.enrSvc.MarkAssignmentComplete(ctx, sub.EnrollmentID)
		if err == nil {
			return sub, nil
		}
		if err == enrollment.ErrNotFound {
			svc.logger.Warn(fmt.Sprintf(
				"submission %s complete but enrollment %s no longer exists", sub.ID, sub.EnrollmentID))
			return sub, nil
		}
		if attempt >= enrollmentUpdateAttempts {
			svc.logger.Error(fmt.Sprintf(
				"submission %s complete but enrollment %s not updated: %v", sub.ID, sub.EnrollmentID, err), err)
			return sub, nil
		}
	}
}
