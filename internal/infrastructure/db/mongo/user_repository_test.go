package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

func duplicateKeyError(index string) error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: "E11000 duplicate key error collection: directory.users index: " + index + " dup key: { x: 1 }",
		}},
	}
}

func TestMapWriteError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"username index", duplicateKeyError(indexUsernameUnique), domain.ErrUsernameTaken},
		{"phone index", duplicateKeyError(indexPhoneUnique), domain.ErrPhoneTaken},
		{"email index", duplicateKeyError(indexEmailUnique), domain.ErrEmailTaken},
		{"unknown index", duplicateKeyError("legacy_idx"), domain.ErrUserExists},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapWriteError(tc.err); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}

	other := errors.New("connection reset")
	if got := mapWriteError(other); got != other {
		t.Errorf("non-duplicate errors must pass through, got %v", got)
	}
}

func TestBuildUserQuery(t *testing.T) {
	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 23, 59, 59, 999_000_000, time.UTC)

	q := buildUserQuery(ports.UserFilter{
		Fields:      map[string]string{"role": "client"},
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if q["role"] != "client" {
		t.Errorf("expected role criterion, got %v", q["role"])
	}
	created, ok := q["createdAt"].(bson.M)
	if !ok {
		t.Fatalf("expected createdAt range, got %T", q["createdAt"])
	}
	gte, _ := created["$gte"].(time.Time)
	lte, _ := created["$lte"].(time.Time)
	if !gte.Equal(from) || !lte.Equal(to) {
		t.Errorf("unexpected range: %v", created)
	}

	if q := buildUserQuery(ports.UserFilter{}); len(q) != 0 {
		t.Errorf("empty filter must produce an empty query, got %v", q)
	}

	q = buildUserQuery(ports.UserFilter{CreatedTo: to})
	created = q["createdAt"].(bson.M)
	if _, ok := created["$gte"]; ok {
		t.Error("lower bound must be absent when CreatedFrom is zero")
	}
}

func TestConflictQuery(t *testing.T) {
	or := conflictQuery("ana", "5551234567", "")["$or"].(bson.A)
	if len(or) != 2 {
		t.Errorf("empty email must not be part of the lookup, got %v", or)
	}

	or = conflictQuery("ana", "5551234567", "ana@example.com")["$or"].(bson.A)
	if len(or) != 3 {
		t.Errorf("expected 3 clauses, got %v", or)
	}
}

func TestPatchSet(t *testing.T) {
	role := "employee"
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	set := patchSet(ports.UserPatch{Role: &role}, now)
	updatedAt, _ := set["updatedAt"].(time.Time)
	if len(set) != 2 || set["role"] != "employee" || !updatedAt.Equal(now) {
		t.Errorf("unexpected $set: %v", set)
	}
	if _, ok := set["_id"]; ok {
		t.Error("_id must never be written")
	}
}

func TestUserDocument_RoundTrip(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := userDocument{ID: oid, Username: "ana", Password: "hash", Role: "client"}

	u := doc.toDomain()
	if u.ID != oid.Hex() || u.Username != "ana" || u.Password != "hash" {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestByID_SortsAscending(t *testing.T) {
	sort, ok := byID().Sort.(bson.D)
	if !ok || len(sort) != 1 {
		t.Fatalf("expected a single-key bson.D sort, got %#v", byID().Sort)
	}
	if sort[0].Key != "_id" || sort[0].Value != 1 {
		t.Errorf("expected _id ascending, got %v", sort[0])
	}
}
