package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	indexUsernameUnique = "username_unique"
	indexPhoneUnique    = "phone_unique"
	indexEmailUnique    = "email_unique"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// indexes back the application-level uniqueness check.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	plan := map[string][]mongo.IndexModel{
		collectionUsers: userIndexes(),
		collectionLeads: {
			{
				Keys:    bson.D{{Key: "allocatedTo", Value: 1}, {Key: "isArchived", Value: 1}},
				Options: options.Index().SetName("allocatedTo_isArchived"),
			},
			{
				Keys:    bson.D{{Key: "clientPhone", Value: 1}},
				Options: options.Index().SetName("clientPhone"),
			},
		},
		collectionAudit: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "occurredAt", Value: -1}},
				Options: options.Index().SetName("userId_occurredAt"),
			},
		},
	}

	for _, name := range []string{collectionUsers, collectionLeads, collectionAudit} {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, plan[name])
		if err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
		log.Debug().Str("collection", name).Strs("indexes", created).Msg("indexes ensured")
	}
	return nil
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(indexUsernameUnique).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName(indexPhoneUnique).SetUnique(true),
		},
		{
			// Email is optional: only non-empty string values must be unique.
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName(indexEmailUnique).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"email": bson.M{"$type": "string", "$gt": ""},
				}),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("createdAt"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role"),
		},
	}
}
