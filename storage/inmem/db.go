package inmem

import (
	"sync"

	"github.com/trezcool/coursemaster/core/course"
	"github.com/trezcool/coursemaster/core/enrollment"
	"github.com/trezcool/coursemaster/core/submission"
	"github.com/trezcool/coursemaster/core/user"
)

type (
	DB struct {
		course     *courseTable
		user       *userTable
		enrollment *enrollmentTable
		submission *submissionTable
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*enrollment.Enrollment
	}

	submissionTable struct {
		sync.RWMutex
		table map[string]*submission.Submission
	}
)

func Open() (*DB, error) {
	db := &DB{
		course:     &courseTable{table: make(map[string]*course.Course)},
		user:       &userTable{table: make(map[string]*user.User)},
		enrollment: &enrollmentTable{table: make(map[string]*enrollment.Enrollment)},
		submission: &submissionTable{table: make(map[string]*submission.Submission)},
	}
	return db, nil
}
