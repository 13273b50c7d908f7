package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/profile/entity"
	"github.com/ovaphlow/pitchfork/service-youapp/pkg/database"
)

type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection("profiles")}
}

// EnsureIndexes creates the unique user_id index plus the lookup indexes on
// interests and zodiac.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "interests", Value: 1}}},
		{Keys: bson.D{{Key: "zodiac", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create profile indexes: %w", err)
	}
	return nil
}

func (r *MongoRepo) Create(ctx context.Context, p *entity.Profile) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return errProfileExists(err)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *MongoRepo) FindByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	var p entity.Profile
	if err := r.coll.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (r *MongoRepo) Update(ctx context.Context, p *entity.Profile) error {
	set := bson.D{
		{Key: "name", Value: p.Name},
		{Key: "birthday", Value: p.Birthday},
		{Key: "gender", Value: p.Gender},
		{Key: "height", Value: p.Height},
		{Key: "weight", Value: p.Weight},
		{Key: "interests", Value: []string(p.Interests)},
		{Key: "profile_image", Value: p.ProfileImage},
		{Key: "height_unit", Value: p.HeightUnit},
		{Key: "height_feet", Value: p.HeightFeet},
		{Key: "height_inches", Value: p.HeightInches},
		{Key: "zodiac", Value: p.Zodiac},
		{Key: "horoscope", Value: p.Horoscope},
		{Key: "updated_at", Value: p.UpdatedAt},
	}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "user_id", Value: p.UserID}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
