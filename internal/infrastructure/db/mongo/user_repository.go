package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

// userDocument is the stored shape of a user.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password,omitempty"`
	Phone     string             `bson:"phone"`
	Email     string             `bson:"email,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Password:  u.Password,
		Phone:     u.Phone,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Username:  d.Username,
		Password:  d.Password,
		Phone:     d.Phone,
		Email:     d.Email,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

// List returns every user in the store's natural order.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{}, options.Find())
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Find runs an equality query on filter.Fields, bounded on createdAt when
// either bound is set.
func (r *UserRepository) Find(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	return r.find(ctx, buildUserQuery(filter), byID())
}

func buildUserQuery(filter ports.UserFilter) bson.M {
	query := bson.M{}
	for k, v := range filter.Fields {
		query[k] = v
	}

	created := bson.M{}
	if !filter.CreatedFrom.IsZero() {
		created["$gte"] = filter.CreatedFrom.UTC()
	}
	if !filter.CreatedTo.IsZero() {
		created["$lte"] = filter.CreatedTo.UTC()
	}
	if len(created) > 0 {
		query["createdAt"] = created
	}
	return query
}

func (r *UserRepository) FindByRole(ctx context.Context, role string) ([]*domain.User, error) {
	return r.find(ctx, bson.M{"role": role}, byID())
}

func (r *UserRepository) FindConflicts(ctx context.Context, username, phone, email string) ([]*domain.User, error) {
	return r.find(ctx, conflictQuery(username, phone, email), byID())
}

func conflictQuery(username, phone, email string) bson.M {
	or := bson.A{
		bson.M{"username": username},
		bson.M{"phone": phone},
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	return bson.M{"$or": or}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDocument(user)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapWriteError(err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch ports.UserPatch, updatedAt time.Time) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": patchSet(patch, updatedAt)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, mapWriteError(err)
	}
	return doc.toDomain(), nil
}

// patchSet builds the $set document for patch. updatedAt is always present,
// so the update is never empty.
func patchSet(patch ports.UserPatch, updatedAt time.Time) bson.M {
	set := bson.M{"updatedAt": updatedAt.UTC()}
	fields := []struct {
		key   string
		value *string
	}{
		{"firstName", patch.FirstName},
		{"lastName", patch.LastName},
		{"username", patch.Username},
		{"password", patch.Password},
		{"phone", patch.Phone},
		{"email", patch.Email},
		{"role", patch.Role},
	}
	for _, f := range fields {
		if f.value != nil {
			set[f.key] = *f.value
		}
	}
	return set
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// byID orders results by insertion, which ObjectIDs encode.
func byID() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func (r *UserRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

// uniqueIndexes maps the name of each unique index to the field it protects.
var uniqueIndexes = []struct {
	name  string
	field domain.UniqueField
}{
	{indexUsernameUnique, domain.FieldUsername},
	{indexPhoneUnique, domain.FieldPhone},
	{indexEmailUnique, domain.FieldEmail},
}

// mapWriteError turns a duplicate key error into the conflict for the index
// that rejected the write. Other errors are returned unchanged.
func mapWriteError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	for _, idx := range uniqueIndexes {
		if strings.Contains(msg, "index: "+idx.name) {
			return domain.ConflictFor(idx.field)
		}
	}
	return domain.ErrUserExists
}
