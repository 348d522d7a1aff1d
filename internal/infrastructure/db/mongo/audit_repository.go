package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

// InsertEvent appends a user event to the audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.UserEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"type":       string(event.Type),
		"occurredAt": event.OccurredAt.UTC(),
		"recordedAt": time.Now().UTC(),
	}
	if event.UserID != "" {
		doc["userId"] = event.UserID
	}
	if event.Actor != "" {
		doc["actor"] = event.Actor
	}
	if len(event.Details) > 0 {
		doc["details"] = event.Details
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
