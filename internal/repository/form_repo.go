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
	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
)

const FormsCollection = "forms"

type FormRepo struct {
	coll *mongo.Collection
}

func NewFormRepo(pool *db.Pool) *FormRepo {
	return &FormRepo{coll: pool.Collection(FormsCollection)}
}

type formDoc struct {
	ID        bson.ObjectID       `bson:"_id,omitempty"`
	AdminID   string              `bson:"adminId"`
	Title     string              `bson:"title"`
	Fields    []schema.Definition `bson:"fields"`
	IsActive  bool                `bson:"isActive"`
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

func (r *FormRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "adminId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *FormRepo) Create(ctx context.Context, form *models.Form) (string, error) {
	doc := formToDoc(form)
	doc.ID = bson.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert form: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (r *FormRepo) FindByID(ctx context.Context, id string) (*models.Form, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	var doc formDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find form %s: %w", id, err)
	}
	return docToForm(&doc)
}

// FindActive returns active forms, newest first. An empty adminID means every owner.
func (r *FormRepo) FindActive(ctx context.Context, adminID string) ([]models.Form, error) {
	filter := bson.M{"isActive": true}
	if adminID != "" {
		filter["adminId"] = adminID
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find forms: %w", err)
	}
	var docs []formDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode forms: %w", err)
	}
	forms := make([]models.Form, 0, len(docs))
	for i := range docs {
		f, err := docToForm(&docs[i])
		if err != nil {
			return nil, err
		}
		forms = append(forms, *f)
	}
	return forms, nil
}

func (r *FormRepo) Update(ctx context.Context, id string, form *models.Form) error {
	oid, ok := objectID(id)
	if !ok {
		return apperr.NotFound("form not found with ID: %s", id)
	}
	doc := formToDoc(form)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":     doc.Title,
		"fields":    doc.Fields,
		"isActive":  doc.IsActive,
		"updatedAt": doc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update form %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("form not found with ID: %s", id)
	}
	return nil
}

func formToDoc(f *models.Form) *formDoc {
	return &formDoc{
		AdminID:   f.AdminID,
		Title:     f.Title,
		Fields:    schema.Definitions(f.Fields),
		IsActive:  f.IsActive,
		CreatedAt: stamp(f.CreatedAt),
		UpdatedAt: stamp(f.UpdatedAt),
	}
}

func docToForm(doc *formDoc) (*models.Form, error) {
	fields, err := schema.BuildAll(doc.Fields)
	if err != nil {
		return nil, fmt.Errorf("form %s has an invalid schema: %w", doc.ID.Hex(), err)
	}
	return &models.Form{
		ID:        doc.ID.Hex(),
		AdminID:   doc.AdminID,
		Title:     doc.Title,
		Fields:    fields,
		IsActive:  doc.IsActive,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
