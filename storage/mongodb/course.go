package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/coursemaster/core/course"
)

type (
	assignmentDoc struct {
		Title       string `bson:"title"`
		Description string `bson:"description"`
		Link        string `bson:"link,omitempty"`
	}

	courseDoc struct {
		ID          primitive.ObjectID `bson:"_id,omitempty"`
		Title       string             `bson:"title"`
		Description string             `bson:"description"`
		Instructor  string             `bson:"instructor"`
		Price       float64            `bson:"price"`
		Category    string             `bson:"category,omitempty"`
		Syllabus    string             `bson:"syllabus,omitempty"`
		Batch       string             `bson:"batch,omitempty"`
		Thumbnail   string             `bson:"thumbnail,omitempty"`
		Lessons     []string           `bson:"lessons,omitempty"`
		Assignments []assignmentDoc    `bson:"assignments,omitempty"`
		CreatedAt   time.Time          `bson:"created_at"`
		UpdatedAt   time.Time          `bson:"updated_at"`
	}

	courseRepository struct {
		coll *mongo.Collection
	}
)

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *mongo.Database) *courseRepository {
	return &courseRepository{coll: db.Collection(coursesCollection)}
}

func (repo courseRepository) pack(crs course.Course) courseDoc {
	doc := courseDoc{
		Title:       crs.Title,
		Description: crs.Description,
		Instructor:  crs.Instructor,
		Price:       crs.Price,
		Category:    crs.Category,
		Syllabus:    crs.Syllabus,
		Batch:       crs.Batch,
		Thumbnail:   crs.Thumbnail,
		Lessons:     crs.Lessons,
		CreatedAt:   crs.CreatedAt.UTC(),
		UpdatedAt:   crs.UpdatedAt.UTC(),
	}
	for _, a := range crs.Assignments {
		doc.Assignments = append(doc.Assignments, assignmentDoc(a))
	}
	if crs.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(crs.ID); err == nil {
			doc.ID = oid
		}
	}
	return doc
}

func (repo courseRepository) unpack(doc courseDoc) course.Course {
	crs := course.Course{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Instructor:  doc.Instructor,
		Price:       doc.Price,
		Category:    doc.Category,
		Syllabus:    doc.Syllabus,
		Batch:       doc.Batch,
		Thumbnail:   doc.Thumbnail,
		Lessons:     doc.Lessons,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	for _, a := range doc.Assignments {
		crs.Assignments = append(crs.Assignments, course.Assignment(a))
	}
	return crs
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	doc := repo.pack(crs)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return repo.unpack(doc), nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	defer cursor.Close(ctx)

	var courses []course.Course
	for cursor.Next(ctx) {
		var doc courseDoc
		if err = cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decoding course")
		}
		courses = append(courses, repo.unpack(doc))
	}
	if err = cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return course.Course{}, course.ErrNotFound
	}

	var doc courseDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return course.Course{}, trapNoDocsErr(err, course.ErrNotFound, "finding course")
	}
	return repo.unpack(doc), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	oid, err := primitive.ObjectIDFromHex(crs.ID)
	if err != nil {
		return course.Course{}, course.ErrNotFound
	}

	doc := repo.pack(crs)
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if res.MatchedCount == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.unpack(doc), nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string) (course.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return course.Course{}, course.ErrNotFound
	}

	var doc courseDoc
	if err = repo.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return course.Course{}, trapNoDocsErr(err, course.ErrNotFound, "deleting course")
	}
	return repo.unpack(doc), nil
}
