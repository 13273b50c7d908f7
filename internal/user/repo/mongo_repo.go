package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-youapp/pkg/database"
)

const usersCollection = "users"

// MongoRepo stores users as documents keyed by the user id.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique indexes Create relies on. Idempotent.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *MongoRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	or := bson.A{}
	if email != "" {
		or = append(or, bson.D{{Key: "email", Value: email}})
	}
	if username != "" {
		or = append(or, bson.D{{Key: "username", Value: username}})
	}
	if len(or) == 0 {
		return nil, ErrNotFound
	}
	var u entity.User
	err := r.coll.FindOne(ctx, bson.D{{Key: "$or", Value: or}}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email or username: %w", err)
	}
	return &u, nil
}

func (r *MongoRepo) Create(ctx context.Context, u *entity.User) error {
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if detail, ok := database.UniqueViolation(err); ok {
			return conflictFor(detail, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoRepo) FindByID(ctx context.Context, id string) (*entity.View, error) {
	var v entity.View
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}, findByIDOptions()).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &v, nil
}

// findByIDOptions projects the sanitized view fields only.
func findByIDOptions() *options.FindOneOptionsBuilder {
	return options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "email", Value: 1}, {Key: "username", Value: 1}})
}

func (r *MongoRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "last_login_at", Value: at}, {Key: "updated_at", Value: at}}}},
	)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
