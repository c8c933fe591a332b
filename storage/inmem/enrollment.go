package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/coursemaster/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) query(match func(*enrollment.Enrollment) bool) []enrollment.Enrollment {
	enrs := make([]enrollment.Enrollment, 0, len(repo.db.table))
	for _, enr := range repo.db.table {
		if match == nil || match(enr) {
			enrs = append(enrs, *enr)
		}
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].CreatedAt.After(enrs[j].CreatedAt) })
	return enrs
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// uniqueness on (email, course_id), as the unique index does
	for _, e := range repo.db.table {
		if e.Email == enr.Email && e.CourseID == enr.CourseID {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
	}
	enr.ID = uuid.New().String()
	repo.db.table[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) EnrollmentExists(_ context.Context, email, courseID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, enr := range repo.db.table {
		if enr.Email == email && enr.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *enrollmentRepository) QueryAllEnrollments(_ context.Context) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(nil), nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(_ context.Context, id string) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.table[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryEnrollmentsByEmail(_ context.Context, email string) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(enr *enrollment.Enrollment) bool { return enr.Email == email }), nil
}

func (repo *enrollmentRepository) UpdateEnrollmentStatus(_ context.Context, id string, st enrollment.Status) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	enr, ok := repo.db.table[id]
	if !ok {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	enr.Status = st
	enr.UpdatedAt = time.Now().UTC()
	return *enr, nil
}

func (repo *enrollmentRepository) UpdateEnrollmentCourseStatus(_ context.Context, id string, st enrollment.ProgressStatus) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	enr, ok := repo.db.table[id]
	if !ok {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	enr.CourseStatus = st
	enr.UpdatedAt = time.Now().UTC()
	return *enr, nil
}

func (repo *enrollmentRepository) UpdateEnrollmentAssignmentStatus(_ context.Context, id string, st enrollment.ProgressStatus) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	enr, ok := repo.db.table[id]
	if !ok {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	enr.AssignmentStatus = st
	enr.UpdatedAt = time.Now().UTC()
	return *enr, nil
}
