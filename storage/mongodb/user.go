package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/coursemaster/core/user"
)

type (
	userDoc struct {
		ID           primitive.ObjectID `bson:"_id,omitempty"`
		Name         string             `bson:"name"`
		Email        string             `bson:"email"`
		Role         string             `bson:"role"`
		PasswordHash []byte             `bson:"password_hash"`
		RegisteredAt time.Time          `bson:"registered_at"`
	}

	userRepository struct {
		coll *mongo.Collection
	}
)

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (repo userRepository) pack(usr user.User) userDoc {
	doc := userDoc{
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         usr.Role,
		PasswordHash: usr.PasswordHash,
		RegisteredAt: usr.RegisteredAt.UTC(),
	}
	if usr.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(usr.ID); err == nil {
			doc.ID = oid
		}
	}
	return doc
}

func (repo userRepository) unpack(doc userDoc) user.User {
	return user.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		Role:         doc.Role,
		PasswordHash: doc.PasswordHash,
		RegisteredAt: doc.RegisteredAt,
	}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc := repo.pack(usr)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return repo.unpack(doc), nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	defer cursor.Close(ctx)

	var users []user.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err = cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decoding user")
		}
		users = append(users, repo.unpack(doc))
	}
	if err = cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}

	var doc userDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return user.User{}, trapNoDocsErr(err, user.ErrNotFound, "finding user")
	}
	return repo.unpack(doc), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var doc userDoc
	if err := repo.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return user.User{}, trapNoDocsErr(err, user.ErrNotFound, "finding user by email")
	}
	return repo.unpack(doc), nil
}

func (repo userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		return repo.CreateUser(ctx, usr)
	}
	oid, err := primitive.ObjectIDFromHex(usr.ID)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}

	doc := repo.pack(usr)
	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)
	if err = repo.coll.FindOneAndReplace(ctx, bson.M{"_id": oid}, doc, opts).Decode(&doc); err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return repo.unpack(doc), nil
}
