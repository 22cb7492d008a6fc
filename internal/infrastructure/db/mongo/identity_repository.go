package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/draftforge/content-platform/internal/core/domain"
)

const identityCollection = "identities"

// MongoIdentityRepository persists identities and their optional credential
// records in a single collection. Identity ids are opaque strings chosen by
// the caller (uuid for credential accounts, provider subject for OAuth), so
// the document _id is the identity id itself.
type MongoIdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *MongoIdentityRepository {
	return &MongoIdentityRepository{coll: db.Collection(identityCollection)}
}

type mongoIdentity struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	Name         string `bson:"name,omitempty"`
	Image        string `bson:"image,omitempty"`
	PasswordHash string `bson:"password_hash,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (r *MongoIdentityRepository) Create(ctx context.Context, identity *domain.Identity, passwordHash string) (*domain.Identity, error) {
	doc := mongoIdentity{
		ID:           identity.ID,
		Email:        identity.Email,
		Name:         identity.Name,
		Image:        identity.Image,
		PasswordHash: passwordHash,
		CreatedAt:    identity.CreatedAt.Unix(),
		UpdatedAt:    identity.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	return r.FindByID(ctx, identity.ID)
}

func (r *MongoIdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *MongoIdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *MongoIdentityRepository) UpdateProfile(ctx context.Context, id, name, image string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":       name,
		"image":      image,
		"updated_at": time.Now().UTC().Unix(),
	}})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoIdentityRepository) FindCredential(ctx context.Context, email string) (*domain.Credential, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	// Pure-OAuth accounts carry no credential record.
	if mi.PasswordHash == "" {
		return nil, domain.ErrUserNotFound
	}
	return &domain.Credential{IdentityID: mi.ID, PasswordHash: mi.PasswordHash}, nil
}

func (mi mongoIdentity) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:        mi.ID,
		Email:     mi.Email,
		Name:      mi.Name,
		Image:     mi.Image,
		CreatedAt: unixToTime(mi.CreatedAt),
		UpdatedAt: unixToTime(mi.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
