package mongo

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

// leadDocument is read loosely: leads are written by another service and
// clientPhone and allocatedTo are not stored with a consistent BSON type.
type leadDocument struct {
	ID          bson.RawValue   `bson:"_id"`
	ClientPhone bson.RawValue   `bson:"clientPhone"`
	AllocatedTo []bson.RawValue `bson:"allocatedTo"`
	IsArchived  bool            `bson:"isArchived"`
}

func (d leadDocument) toDomain() domain.Lead {
	allocated := make([]string, 0, len(d.AllocatedTo))
	for _, v := range d.AllocatedTo {
		if s := rawString(v); s != "" {
			allocated = append(allocated, s)
		}
	}
	return domain.Lead{
		ID:          rawString(d.ID),
		ClientPhone: rawString(d.ClientPhone),
		AllocatedTo: allocated,
		IsArchived:  d.IsArchived,
	}
}

// rawString renders ids, strings and numbers as plain strings.
func rawString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return v.StringValue()
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case bsontype.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	default:
		return ""
	}
}

// LeadRepository implements ports.LeadRepository on the leads collection.
type LeadRepository struct {
	col *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{col: db.Collection(collectionLeads)}
}

var _ ports.LeadRepository = (*LeadRepository)(nil)

func (r *LeadRepository) FindActiveByEmployee(ctx context.Context, employeeID string) ([]domain.Lead, error) {
	return r.find(ctx, bson.M{
		"allocatedTo": bson.M{"$in": idCandidates(employeeID)},
		"isArchived":  false,
	})
}

func (r *LeadRepository) FindByClientPhones(ctx context.Context, phones []string) ([]domain.Lead, error) {
	if len(phones) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"clientPhone": bson.M{"$in": phoneCandidates(phones)}})
}

// idCandidates matches an allocation stored either as an ObjectID or as its
// hex string.
func idCandidates(id string) bson.A {
	candidates := bson.A{id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		candidates = append(candidates, oid)
	}
	return candidates
}

// phoneCandidates matches phones stored either as strings or as numbers.
func phoneCandidates(phones []string) bson.A {
	candidates := make(bson.A, 0, 2*len(phones))
	for _, p := range phones {
		candidates = append(candidates, p)
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			candidates = append(candidates, n)
		}
	}
	return candidates
}

func (r *LeadRepository) find(ctx context.Context, query bson.M) ([]domain.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []leadDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}

	leads := make([]domain.Lead, 0, len(docs))
	for _, d := range docs {
		leads = append(leads, d.toDomain())
	}
	return leads, nil
}
