package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Sanjeetkumar61/FormBuilder/internal/db"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
)

const ResponsesCollection = "responses"

type ResponseRepo struct {
	coll *mongo.Collection
}

func NewResponseRepo(pool *db.Pool) *ResponseRepo {
	return &ResponseRepo{coll: pool.Collection(ResponsesCollection)}
}

type responseDoc struct {
	ID        bson.ObjectID       `bson:"_id,omitempty"`
	FormID    string              `bson:"formId"`
	UserID    string              `bson:"userId"`
	UserName  string              `bson:"userName"`
	Answers   []answerDoc         `bson:"answers"`
	Files     []models.FileRecord `bson:"files"`
	CreatedAt time.Time           `bson:"createdAt"`
}

// answerDoc stores one answer by field id. Kind selects which of Text, List or Flag holds the value.
type answerDoc struct {
	FieldID int      `bson:"fieldId"`
	Label   string   `bson:"label"`
	Kind    string   `bson:"kind"`
	Text    string   `bson:"text,omitempty"`
	List    []string `bson:"list,omitempty"`
	Flag    bool     `bson:"flag,omitempty"`
}

func (r *ResponseRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "formId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *ResponseRepo) Create(ctx context.Context, resp *models.Response) (string, error) {
	doc := responseToDoc(resp)
	doc.ID = bson.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert response: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (r *ResponseRepo) FindByID(ctx context.Context, id string) (*models.Response, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	var doc responseDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find response %s: %w", id, err)
	}
	return docToResponse(&doc), nil
}

// FindByFormID returns a form's responses, newest first.
func (r *ResponseRepo) FindByFormID(ctx context.Context, formID string) ([]models.Response, error) {
	cur, err := r.coll.Find(ctx, bson.M{"formId": formID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find responses: %w", err)
	}
	var docs []responseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	out := make([]models.Response, 0, len(docs))
	for i := range docs {
		out = append(out, *docToResponse(&docs[i]))
	}
	return out, nil
}

func (r *ResponseRepo) CountByFormID(ctx context.Context, formID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"formId": formID})
	if err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return n, nil
}

func responseToDoc(resp *models.Response) *responseDoc {
	answers := make([]answerDoc, 0, len(resp.Answers))
	for _, a := range resp.Answers {
		d := answerDoc{FieldID: a.FieldID, Label: a.Label, Kind: a.Value.Kind().String()}
		switch a.Value.Kind() {
		case schema.ValueText:
			d.Text = a.Value.Text()
		case schema.ValueList:
			d.List = a.Value.List()
		case schema.ValueBool:
			d.Flag = a.Value.Bool()
		}
		answers = append(answers, d)
	}
	files := append([]models.FileRecord{}, resp.Files...)
	for i := range files {
		files[i].UploadedAt = stamp(files[i].UploadedAt)
	}
	return &responseDoc{
		FormID:    resp.FormID,
		UserID:    resp.UserID,
		UserName:  resp.UserName,
		Answers:   answers,
		Files:     files,
		CreatedAt: stamp(resp.CreatedAt),
	}
}

func docToResponse(doc *responseDoc) *models.Response {
	answers := make(models.AnswerSet, 0, len(doc.Answers))
	for _, d := range doc.Answers {
		var v schema.Value
		switch schema.ParseValueKind(d.Kind) {
		case schema.ValueText:
			v = schema.TextOf(d.Text)
		case schema.ValueList:
			v = schema.ListOf(d.List)
		case schema.ValueBool:
			v = schema.BoolOf(d.Flag)
		}
		answers = append(answers, models.Answer{FieldID: d.FieldID, Label: d.Label, Value: v})
	}
	files := doc.Files
	if files == nil {
		files = []models.FileRecord{}
	}
	return &models.Response{
		ID:        doc.ID.Hex(),
		FormID:    doc.FormID,
		UserID:    doc.UserID,
		UserName:  doc.UserName,
		Answers:   answers,
		Files:     files,
		CreatedAt: doc.CreatedAt,
	}
}
