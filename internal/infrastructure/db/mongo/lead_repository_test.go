package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func rawOf(t *testing.T, v interface{}) bson.RawValue {
	t.Helper()
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		t.Fatal(err)
	}
	return bson.Raw(raw).Lookup("v")
}

func TestRawString(t *testing.T) {
	oid := primitive.NewObjectID()
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"string", "5551234567", "5551234567"},
		{"int64", int64(5551234567), "5551234567"},
		{"int32", int32(42), "42"},
		{"double", float64(5551234567), "5551234567"},
		{"objectid", oid, oid.Hex()},
		{"bool", true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rawString(rawOf(t, tc.in)); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLeadDocument_ToDomain(t *testing.T) {
	emp := primitive.NewObjectID()
	doc := leadDocument{
		ID:          rawOf(t, "lead_1"),
		ClientPhone: rawOf(t, int64(5550000001)),
		AllocatedTo: []bson.RawValue{rawOf(t, emp), rawOf(t, "emp_2")},
		IsArchived:  true,
	}

	l := doc.toDomain()
	if l.ClientPhone != "5550000001" {
		t.Errorf("phone: got %q", l.ClientPhone)
	}
	if len(l.AllocatedTo) != 2 || l.AllocatedTo[0] != emp.Hex() || l.AllocatedTo[1] != "emp_2" {
		t.Errorf("allocatedTo: got %v", l.AllocatedTo)
	}
	if !l.IsArchived {
		t.Error("archive flag lost")
	}
}

func TestCandidates(t *testing.T) {
	if got := idCandidates("not-an-oid"); len(got) != 1 {
		t.Errorf("expected only the raw id, got %v", got)
	}
	if got := idCandidates(primitive.NewObjectID().Hex()); len(got) != 2 {
		t.Errorf("expected string and ObjectID, got %v", got)
	}

	got := phoneCandidates([]string{"5550000001", "+52 55"})
	if len(got) != 3 {
		t.Errorf("expected 3 candidates, got %v", got)
	}
}
