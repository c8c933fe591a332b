package course

import (
	"testing"
	"time"
)

func TestUpdateCourse_Merge(t *testing.T) {
	now := time.Now().UTC()
	orig := Course{
		ID:          "c1",
		Title:       "Go from Scratch",
		Description: "a gentle intro",
		Instructor:  "Rob",
		Price:       1500,
		Category:    "programming",
		Lessons:     []string{"https://lessons.test/1"},
		Assignments: []Assignment{{Title: "CLI", Description: "build one"}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	t.Run("empty update keeps everything", func(t *testing.T) {
		uc := UpdateCourse{}
		got := uc.Merge(orig)
		if got.Title != orig.Title || got.Description != orig.Description ||
			got.Instructor != orig.Instructor || got.Price != orig.Price ||
			len(got.Lessons) != len(orig.Lessons) || len(got.Assignments) != len(orig.Assignments) {
			t.Errorf("Merge() = %+v; want %+v", got, orig)
		}
	})

	t.Run("provided fields overwrite", func(t *testing.T) {
		title := "Go from Scratch v2"
		price := 2000.0
		uc := UpdateCourse{
			Title: &title,
			Price: &price,
		}
		got := uc.Merge(orig)
		if got.Title != "Go from Scratch v2" {
			t.Errorf("Title = %q", got.Title)
		}
		if got.Price != 2000 {
			t.Errorf("Price = %v; want 2000", got.Price)
		}
		if got.Description != orig.Description || got.Instructor != orig.Instructor {
			t.Error("absent fields were not kept")
		}
	})

	t.Run("zero price is applied when provided", func(t *testing.T) {
		price := 0.0
		uc := UpdateCourse{Price: &price}
		if got := uc.Merge(orig); got.Price != 0 {
			t.Errorf("Price = %v; want 0", got.Price)
		}
	})

	t.Run("empty string clears the stored value", func(t *testing.T) {
		category := ""
		uc := UpdateCourse{Category: &category}
		got := uc.Merge(orig)
		if got.Category != "" {
			t.Errorf("Category = %q; want cleared", got.Category)
		}
		if got.Title != orig.Title {
			t.Error("absent fields were not kept")
		}
	})

	t.Run("nil slices keep stored ones", func(t *testing.T) {
		uc := UpdateCourse{Lessons: nil, Assignments: nil}
		got := uc.Merge(orig)
		if len(got.Lessons) != 1 || len(got.Assignments) != 1 {
			t.Errorf("slices = (%v, %v); want kept", got.Lessons, got.Assignments)
		}
	})

	t.Run("provided slices replace stored ones", func(t *testing.T) {
		uc := UpdateCourse{Lessons: []string{"https://lessons.test/1", "https://lessons.test/2"}}
		got := uc.Merge(orig)
		if len(got.Lessons) != 2 {
			t.Errorf("Lessons = %v; want 2 entries", got.Lessons)
		}
	})
}
