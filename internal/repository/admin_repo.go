package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/db"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
)

const AdminsCollection = "admins"

type AdminRepo struct {
	coll *mongo.Collection
}

func NewAdminRepo(pool *db.Pool) *AdminRepo {
	return &AdminRepo{coll: pool.Collection(AdminsCollection)}
}

type adminDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"passwordHash"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

func (r *AdminRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// Create fails with a Conflict error when the email is already registered.
func (r *AdminRepo) Create(ctx context.Context, admin *models.Admin) (string, error) {
	doc := adminDoc{
		ID:           bson.NewObjectID(),
		Name:         admin.Name,
		Email:        admin.Email,
		PasswordHash: admin.PasswordHash,
		CreatedAt:    stamp(admin.CreatedAt),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperr.Conflict("admin already exists with email: %s", admin.Email)
		}
		return "", fmt.Errorf("insert admin: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AdminRepo) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AdminRepo) findOne(ctx context.Context, filter bson.M) (*models.Admin, error) {
	var doc adminDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &models.Admin{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}
