package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursemaster/core"
)

// Assignment is an instructor-provided assignment attached to a Course.
type Assignment struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Link        string `json:"link" validate:"omitempty,url"`
}

type Course struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Instructor  string       `json:"instructor"`
	Price       float64      `json:"price"`
	Category    string       `json:"category"`
	Syllabus    string       `json:"syllabus"`
	Batch       string       `json:"batch"`
	Thumbnail   string       `json:"thumbnail"`
	Lessons     []string     `json:"lessons"`
	Assignments []Assignment `json:"assignments"`
	CreatedAt   time.Time    `json:"created_at"` // UTC
	UpdatedAt   time.Time    `json:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Instructor  string       `json:"instructor" validate:"required"`
	Price       float64      `json:"price" validate:"gte=0"`
	Category    string       `json:"category"`
	Syllabus    string       `json:"syllabus"`
	Batch       string       `json:"batch" validate:"omitempty,alphanum_"`
	Thumbnail   string       `json:"thumbnail" validate:"omitempty,url"`
	Lessons     []string     `json:"lessons" validate:"dive,url"`
	Assignments []Assignment `json:"assignments" validate:"dive"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Instructor = core.CleanString(nc.Instructor)
	nc.Category = core.CleanString(nc.Category)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Pointer fields distinguish absent from empty: any field present in the request
// overwrites the stored value, absent fields are kept as is.
type UpdateCourse struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Instructor  *string      `json:"instructor"`
	Price       *float64     `json:"price" validate:"omitempty,gte=0"`
	Category    *string      `json:"category"`
	Syllabus    *string      `json:"syllabus"`
	Batch       *string      `json:"batch" validate:"omitempty,alphanum_"`
	Thumbnail   *string      `json:"thumbnail" validate:"omitempty,url"`
	Lessons     []string     `json:"lessons" validate:"omitempty,dive,url"`
	Assignments []Assignment `json:"assignments" validate:"omitempty,dive"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	for _, fld := range []*string{uc.Title, uc.Instructor, uc.Category} {
		if fld != nil {
			*fld = core.CleanString(*fld)
		}
	}
	return validate.Struct(uc)
}

// Merge applies the provided fields onto orig and returns the merged Course.
func (uc *UpdateCourse) Merge(orig Course) Course {
	if uc.Title != nil {
		orig.Title = *uc.Title
	}
	if uc.Description != nil {
		orig.Description = *uc.Description
	}
	if uc.Instructor != nil {
		orig.Instructor = *uc.Instructor
	}
	if uc.Price != nil {
		orig.Price = *uc.Price
	}
	if uc.Category != nil {
		orig.Category = *uc.Category
	}
	if uc.Syllabus != nil {
		orig.Syllabus = *uc.Syllabus
	}
	if uc.Batch != nil {
		orig.Batch = *uc.Batch
	}
	if uc.Thumbnail != nil {
		orig.Thumbnail = *uc.Thumbnail
	}
	if uc.Lessons != nil {
		orig.Lessons = uc.Lessons
	}
	if uc.Assignments != nil {
		orig.Assignments = uc.Assignments
	}
	return orig
}
