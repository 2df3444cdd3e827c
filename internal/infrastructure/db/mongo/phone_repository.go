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

const phonesCollection = "phones"

// PhoneRepository persists phone records. The unique index on number
// enforces the system-wide uniqueness invariant at write time.
type PhoneRepository struct {
	coll *mongo.Collection
}

func NewPhoneRepository(db *mongo.Database) *PhoneRepository {
	return &PhoneRepository{coll: db.Collection(phonesCollection)}
}

type mongoPhone struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Number    string             `bson:"number"`
	Verified  bool               `bson:"verified"`
	CreatedAt int64              `bson:"created_at"`
}

// EnsureIndexes creates the unique number index and the per-user lookup index.
func (r *PhoneRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
	return err
}

func (r *PhoneRepository) Create(ctx context.Context, phone *domain.Phone) (*domain.Phone, error) {
	doc := mongoPhone{
		UserID:    phone.UserID,
		Number:    phone.Number,
		Verified:  phone.Verified,
		CreatedAt: phone.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPhoneExists
		}
		return nil, fmt.Errorf("insert phone: %w", err)
	}

	created := *phone
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PhoneRepository) FindByNumber(ctx context.Context, number string) (*domain.Phone, error) {
	var mp mongoPhone
	if err := r.coll.FindOne(ctx, bson.M{"number": number}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find phone: %w", err)
	}
	return fromMongoPhone(&mp), nil
}

func (r *PhoneRepository) ListByUser(ctx context.Context, userID string) ([]domain.Phone, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Phone
	for cur.Next(ctx) {
		var mp mongoPhone
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode phone: %w", err)
		}
		out = append(out, *fromMongoPhone(&mp))
	}
	return out, cur.Err()
}

func fromMongoPhone(mp *mongoPhone) *domain.Phone {
	return &domain.Phone{
		ID:        mp.ID.Hex(),
		UserID:    mp.UserID,
		Number:    mp.Number,
		Verified:  mp.Verified,
		CreatedAt: unixToTime(mp.CreatedAt),
	}
}
