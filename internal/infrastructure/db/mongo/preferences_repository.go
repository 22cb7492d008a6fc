package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/draftforge/content-platform/internal/core/domain"
)

const preferencesCollection = "preferences"

type MongoPreferencesRepository struct {
	coll *mongo.Collection
}

func NewPreferencesRepository(db *mongo.Database) *MongoPreferencesRepository {
	return &MongoPreferencesRepository{coll: db.Collection(preferencesCollection)}
}

type mongoPreferences struct {
	UserID                string `bson:"user_id"`
	DefaultPlatform       string `bson:"default_platform,omitempty"`
	DefaultTemplateID     string `bson:"default_template_id,omitempty"`
	DefaultStyleProfileID string `bson:"default_style_profile_id,omitempty"`
	Theme                 string `bson:"theme,omitempty"`
	UpdatedAt             int64  `bson:"updated_at"`
}

// Get returns the stored preferences, or an empty document when the user has
// never saved any. Absence is not an error: defaults are a valid state.
func (r *MongoPreferencesRepository) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	var mp mongoPreferences
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return &domain.Preferences{UserID: userID}, nil
		}
		return nil, fmt.Errorf("find preferences: %w", err)
	}

	return &domain.Preferences{
		UserID:                mp.UserID,
		DefaultPlatform:       mp.DefaultPlatform,
		DefaultTemplateID:     mp.DefaultTemplateID,
		DefaultStyleProfileID: mp.DefaultStyleProfileID,
		Theme:                 mp.Theme,
		UpdatedAt:             unixToTime(mp.UpdatedAt),
	}, nil
}

// Upsert replaces the whole document keyed by user id. Last write wins.
func (r *MongoPreferencesRepository) Upsert(ctx context.Context, prefs *domain.Preferences) error {
	doc := mongoPreferences{
		UserID:                prefs.UserID,
		DefaultPlatform:       prefs.DefaultPlatform,
		DefaultTemplateID:     prefs.DefaultTemplateID,
		DefaultStyleProfileID: prefs.DefaultStyleProfileID,
		Theme:                 prefs.Theme,
		UpdatedAt:             time.Now().UTC().Unix(),
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"user_id": prefs.UserID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
