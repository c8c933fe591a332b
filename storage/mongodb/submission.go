package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/coursemaster/core/submission"
)

type (
	submissionDoc struct {
		ID                primitive.ObjectID `bson:"_id,omitempty"`
		EnrollmentID      string             `bson:"enrollment_id"`
		AssignmentTitle   string             `bson:"assignment_title"`
		AssignmentDetails string             `bson:"assignment_details"`
		AssignmentLink    string             `bson:"assignment_link,omitempty"`
		StudentSubmitLink string             `bson:"student_submit_link,omitempty"`
		Status            string             `bson:"status"`
		SubmittedAt       time.Time          `bson:"submitted_at"`
		UpdatedAt         time.Time          `bson:"updated_at"`
	}

	submissionRepository struct {
		coll *mongo.Collection
	}
)

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *mongo.Database) *submissionRepository {
	return &submissionRepository{coll: db.Collection(submissionsCollection)}
}

func (repo submissionRepository) pack(sub submission.Submission) submissionDoc {
	doc := submissionDoc{
		EnrollmentID:      sub.EnrollmentID,
		AssignmentTitle:   sub.AssignmentTitle,
		AssignmentDetails: sub.AssignmentDetails,
		AssignmentLink:    sub.AssignmentLink,
		StudentSubmitLink: sub.StudentSubmitLink,
		Status:            string(sub.Status),
		SubmittedAt:       sub.SubmittedAt.UTC(),
		UpdatedAt:         sub.UpdatedAt.UTC(),
	}
	if sub.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(sub.ID); err == nil {
			doc.ID = oid
		}
	}
	return doc
}

func (repo submissionRepository) unpack(doc submissionDoc) submission.Submission {
	return submission.Submission{
		ID:                doc.ID.Hex(),
		EnrollmentID:      doc.EnrollmentID,
		AssignmentTitle:   doc.AssignmentTitle,
		AssignmentDetails: doc.AssignmentDetails,
		AssignmentLink:    doc.AssignmentLink,
		StudentSubmitLink: doc.StudentSubmitLink,
		Status:            submission.Status(doc.Status),
		SubmittedAt:       doc.SubmittedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}

func (repo submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	doc := repo.pack(sub)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return submission.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return repo.unpack(doc), nil
}

func (repo submissionRepository) QueryAllSubmissions(ctx context.Context) ([]submission.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	defer cursor.Close(ctx)

	var subs []submission.Submission
	for cursor.Next(ctx) {
		var doc submissionDoc
		if err = cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decoding submission")
		}
		subs = append(subs, repo.unpack(doc))
	}
	if err = cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	return subs, nil
}

func (repo submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return submission.Submission{}, submission.ErrNotFound
	}

	var doc submissionDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return submission.Submission{}, trapNoDocsErr(err, submission.ErrNotFound, "finding submission")
	}
	return repo.unpack(doc), nil
}

func (repo submissionRepository) UpdateSubmissionStatus(ctx context.Context, id string, st submission.Status) (submission.Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return submission.Submission{}, submission.ErrNotFound
	}

	update := bson.M{"$set": bson.M{"status": string(st), "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc submissionDoc
	if err = repo.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return submission.Submission{}, trapNoDocsErr(err, submission.ErrNotFound, "updating submission status")
	}
	return repo.unpack(doc), nil
}
