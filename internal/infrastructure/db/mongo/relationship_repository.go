package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/registryhq/identity-service/internal/core/domain"
)

const relationshipsCollection = "relationships"

// RelationshipRepository persists relationship links in MongoDB.
type RelationshipRepository struct {
	coll *mongo.Collection
}

func NewRelationshipRepository(db *mongo.Database) *RelationshipRepository {
	return &RelationshipRepository{coll: db.Collection(relationshipsCollection)}
}

type mongoRelationship struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CreatorID    string             `bson:"creator_id"`
	OtherID      string             `bson:"other_id"`
	Status       string             `bson:"status"`
	Verified     bool               `bson:"verified"`
	PhoneNumbers []string           `bson:"phone_numbers,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
}

func (r *RelationshipRepository) Create(ctx context.Context, rel *domain.Relationship) (*domain.Relationship, error) {
	doc := mongoRelationship{
		CreatorID:    rel.CreatorID,
		OtherID:      rel.OtherID,
		Status:       string(rel.Status),
		Verified:     rel.Verified,
		PhoneNumbers: rel.PhoneNumbers,
		CreatedAt:    rel.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert relationship: %w", err)
	}

	created := *rel
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *RelationshipRepository) FindByID(ctx context.Context, id string) (*domain.Relationship, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRelationshipNotFound
	}

	var mr mongoRelationship
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("find relationship: %w", err)
	}

	return &domain.Relationship{
		ID:           mr.ID.Hex(),
		CreatorID:    mr.CreatorID,
		OtherID:      mr.OtherID,
		Status:       domain.RelationshipStatus(mr.Status),
		Verified:     mr.Verified,
		PhoneNumbers: mr.PhoneNumbers,
		CreatedAt:    unixToTime(mr.CreatedAt),
	}, nil
}

func (r *RelationshipRepository) Update(ctx context.Context, rel *domain.Relationship) error {
	oid, err := primitive.ObjectIDFromHex(rel.ID)
	if err != nil {
		return domain.ErrRelationshipNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":   string(rel.Status),
		"verified": rel.Verified,
	}})
	if err != nil {
		return fmt.Errorf("update relationship: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRelationshipNotFound
	}
	return nil
}
