package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/coursemaster/core/enrollment"
)

type (
	enrollmentDoc struct {
		ID               primitive.ObjectID `bson:"_id,omitempty"`
		UserID           string             `bson:"user_id,omitempty"`
		CourseID         string             `bson:"course_id"`
		CourseTitle      string             `bson:"course_title,omitempty"`
		Name             string             `bson:"name"`
		Email            string             `bson:"email"`
		Phone            string             `bson:"phone,omitempty"`
		Amount           float64            `bson:"amount"`
		PaymentMethod    string             `bson:"payment_method,omitempty"`
		TransactionID    string             `bson:"transaction_id,omitempty"`
		Status           string             `bson:"status"`
		CourseStatus     string             `bson:"course_status"`
		AssignmentStatus string             `bson:"assignment_status"`
		CreatedAt        time.Time          `bson:"created_at"`
		UpdatedAt        time.Time          `bson:"updated_at"`
	}

	enrollmentRepository struct {
		coll *mongo.Collection
	}
)

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *mongo.Database) *enrollmentRepository {
	return &enrollmentRepository{coll: db.Collection(enrollmentsCollection)}
}

func (repo enrollmentRepository) pack(enr enrollment.Enrollment) enrollmentDoc {
	doc := enrollmentDoc{
		UserID:           enr.UserID,
		CourseID:         enr.CourseID,
		CourseTitle:      enr.CourseTitle,
		Name:             enr.Name,
		Email:            enr.Email,
		Phone:            enr.Phone,
		Amount:           enr.Amount,
		PaymentMethod:    enr.PaymentMethod,
		TransactionID:    enr.TransactionID,
		Status:           string(enr.Status),
		CourseStatus:     string(enr.CourseStatus),
		AssignmentStatus: string(enr.AssignmentStatus),
		CreatedAt:        enr.CreatedAt.UTC(),
		UpdatedAt:        enr.UpdatedAt.UTC(),
	}
	if enr.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(enr.ID); err == nil {
			doc.ID = oid
		}
	}
	return doc
}

func (repo enrollmentRepository) unpack(doc enrollmentDoc) enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:               doc.ID.Hex(),
		UserID:           doc.UserID,
		CourseID:         doc.CourseID,
		CourseTitle:      doc.CourseTitle,
		Name:             doc.Name,
		Email:            doc.Email,
		Phone:            doc.Phone,
		Amount:           doc.Amount,
		PaymentMethod:    doc.PaymentMethod,
		TransactionID:    doc.TransactionID,
		Status:           enrollment.Status(doc.Status),
		CourseStatus:     enrollment.ProgressStatus(doc.CourseStatus),
		AssignmentStatus: enrollment.ProgressStatus(doc.AssignmentStatus),
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

func (repo enrollmentRepository) query(ctx context.Context, filter bson.M) ([]enrollment.Enrollment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	defer cursor.Close(ctx)

	var enrs []enrollment.Enrollment
	for cursor.Next(ctx) {
		var doc enrollmentDoc
		if err = cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decoding enrollment")
		}
		enrs = append(enrs, repo.unpack(doc))
	}
	if err = cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return enrs, nil
}

// setField updates a single status field and returns the updated enrollment.
func (repo enrollmentRepository) setField(ctx context.Context, id, field, value string) (enrollment.Enrollment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}

	update := bson.M{"$set": bson.M{field: value, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc enrollmentDoc
	if err = repo.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return enrollment.Enrollment{}, trapNoDocsErr(err, enrollment.ErrNotFound, "updating enrollment "+field)
	}
	return repo.unpack(doc), nil
}

func (repo enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	doc := repo.pack(enr)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
		return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return repo.unpack(doc), nil
}

func (repo enrollmentRepository) EnrollmentExists(ctx context.Context, email, courseID string) (bool, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.M{"email": email, "course_id": courseID}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "checking enrollment existence")
	}
	return count > 0, nil
}

func (repo enrollmentRepository) QueryAllEnrollments(ctx context.Context) ([]enrollment.Enrollment, error) {
	return repo.query(ctx, bson.M{})
}

func (repo enrollmentRepository) GetEnrollmentByID(ctx context.Context, id string) (enrollment.Enrollment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}

	var doc enrollmentDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return enrollment.Enrollment{}, trapNoDocsErr(err, enrollment.ErrNotFound, "finding enrollment")
	}
	return repo.unpack(doc), nil
}

func (repo enrollmentRepository) QueryEnrollmentsByEmail(ctx context.Context, email string) ([]enrollment.Enrollment, error) {
	return repo.query(ctx, bson.M{"email": email})
}

func (repo enrollmentRepository) UpdateEnrollmentStatus(ctx context.Context, id string, st enrollment.Status) (enrollment.Enrollment, error) {
	return repo.setField(ctx, id, "status", string(st))
}

func (repo enrollmentRepository) UpdateEnrollmentCourseStatus(ctx context.Context, id string, st enrollment.ProgressStatus) (enrollment.Enrollment, error) {
	return repo.setField(ctx, id, "course_status", string(st))
}

func (repo enrollmentRepository) UpdateEnrollmentAssignmentStatus(ctx context.Context, id string, st enrollment.ProgressStatus) (enrollment.Enrollment, error) {
	return repo.setField(ctx, id, "assignment_status", string(st))
}
