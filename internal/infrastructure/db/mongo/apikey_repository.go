package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/registryhq/identity-service/internal/core/domain"
)

const apiKeysCollection = "project_api_keys"

// APIKeyRepository persists project API keys. Only the hashed secret is
// ever written; the plaintext never reaches this layer.
type APIKeyRepository struct {
	coll *mongo.Collection
}

func NewAPIKeyRepository(db *mongo.Database) *APIKeyRepository {
	return &APIKeyRepository{coll: db.Collection(apiKeysCollection)}
}

type mongoAPIKey struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	PubKey     string             `bson:"pub_key"`
	SecretHash string             `bson:"secret_hash"`
	CreatedAt  int64              `bson:"created_at"`
}

// EnsureIndexes creates the unique pub_key index.
func (r *APIKeyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pub_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *APIKeyRepository) Create(ctx context.Context, key *domain.ProjectAPIKey) (*domain.ProjectAPIKey, error) {
	doc := mongoAPIKey{
		UserID:     key.UserID,
		PubKey:     key.PubKey,
		SecretHash: key.SecretHash,
		CreatedAt:  key.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAPIKeyInvalid
		}
		return nil, fmt.Errorf("insert api key: %w", err)
	}

	created := *key
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *APIKeyRepository) FindByPubKey(ctx context.Context, pubKey string) (*domain.ProjectAPIKey, error) {
	var mk mongoAPIKey
	if err := r.coll.FindOne(ctx, bson.M{"pub_key": pubKey}).Decode(&mk); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAPIKeyInvalid
		}
		return nil, fmt.Errorf("find api key: %w", err)
	}

	return &domain.ProjectAPIKey{
		ID:         mk.ID.Hex(),
		UserID:     mk.UserID,
		PubKey:     mk.PubKey,
		SecretHash: mk.SecretHash,
		CreatedAt:  unixToTime(mk.CreatedAt),
	}, nil
}
