package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nutricoach/backend/internal/plans"
)

// MongoRepo stores each plan as one document keyed by its "id" string field.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo ensures the collection's indexes before handing the repo out;
// without the unique "id" index duplicate plan ids could slip in unnoticed.
func NewMongoRepo(col *mongo.Collection) (*MongoRepo, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(context.Background(), idx); err != nil {
		return nil, fmt.Errorf("ensure id index: %w", err)
	}
	if _, err := col.Indexes().CreateOne(context.Background(),
		mongo.IndexModel{Keys: bson.D{{Key: "patientId", Value: 1}}}); err != nil {
		return nil, fmt.Errorf("ensure patientId index: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Create(ctx context.Context, p *plans.Plan) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*plans.Plan, error) {
	var p plans.Plan
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) ForPatient(ctx context.Context, patientID int64) ([]*plans.Plan, error) {
	return m.find(ctx, bson.M{"patientId": patientID})
}

func (m *MongoRepo) ForNutritionist(ctx context.Context, nutritionistID int64) ([]*plans.Plan, error) {
	return m.find(ctx, bson.M{"nutritionistId": nutritionistID})
}

func (m *MongoRepo) Replace(ctx context.Context, id string, nutritionistID int64, body plans.PlanReplace) error {
	set := bson.M{
		"title":       body.Title,
		"description": body.Description,
		"days":        body.Days,
		"updatedAt":   time.Now().UTC(),
	}
	res, err := m.col.UpdateOne(ctx,
		bson.M{"id": id, "nutritionistId": nutritionistID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return m.missingOrForeign(ctx, id)
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string, nutritionistID int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id, "nutritionistId": nutritionistID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return m.missingOrForeign(ctx, id)
	}
	return nil
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M) ([]*plans.Plan, error) {
	cur, err := m.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*plans.Plan{}
	for cur.Next(ctx) {
		var p plans.Plan
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) missingOrForeign(ctx context.Context, id string) error {
	n, err := m.col.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrNotOwner
	}
	return ErrNotFound
}

var _ Repository = (*MongoRepo)(nil)
