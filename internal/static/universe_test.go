package static

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func fixtureUniverse() *Universe {
	b := &UniverseBuilder{}
	return b.
		System(1234, "ABCD", 5678, "LMNO").
		System(1234, "ABCD", 5679, "PQRS").
		Station(1234, 5678, 9012, "XYZ").
		Type(34, "Tritanium").
		Build()
}

func TestUniverse_Metadata(t *testing.T) {
	u := fixtureUniverse()

	tests := []struct {
		kind Kind
		id   int64
		want Meta
	}{
		{KindRegion, 1234, Meta{Kind: KindRegion, ID: 1234, Name: "ABCD"}},
		{KindSystem, 5678, Meta{Kind: KindSystem, ID: 5678, Name: "LMNO", RegionID: 1234}},
		{KindStation, 9012, Meta{Kind: KindStation, ID: 9012, Name: "XYZ", RegionID: 1234, SystemID: 5678}},
		{KindItem, 34, Meta{Kind: KindItem, ID: 34, Name: "Tritanium"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := u.Metadata(tt.kind, tt.id)
			if err != nil {
				t.Fatalf("Metadata failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Metadata(%s, %d) = %+v, want %+v", tt.kind, tt.id, got, tt.want)
			}
		})
	}
}

func TestUniverse_Metadata_Missing(t *testing.T) {
	u := fixtureUniverse()

	_, err := u.Metadata(KindStation, 1)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
	if got := err.Error(); got != "station 1 not found" {
		t.Errorf("Error() = %q", got)
	}

	if _, err := u.Metadata("planet", 1); err == nil || errors.As(err, &nf) {
		t.Errorf("err = %v, want unknown kind error", err)
	}
}

func TestUniverse_NestedRegions(t *testing.T) {
	u := fixtureUniverse()

	region := u.Regions[1234]
	if len(region.Systems) != 2 {
		t.Fatalf("len(Systems) = %d, want 2", len(region.Systems))
	}
	if region.Systems[5679] != u.Systems[5679] {
		t.Error("region systems should share metadata with the systems index")
	}
}

func TestTableFor(t *testing.T) {
	table, err := TableFor(KindSystem)
	if err != nil {
		t.Fatalf("TableFor failed: %v", err)
	}
	want := `SELECT "solarSystemID" FROM "mapSolarSystems" WHERE "solarSystemName" = $1`
	if got := table.lookupQuery("$1"); got != want {
		t.Errorf("lookupQuery = %q, want %q", got, want)
	}

	if _, err := TableFor("planet"); err == nil || !strings.Contains(err.Error(), "planet") {
		t.Errorf("err = %v, want unknown kind", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(fixtureUniverse())
	ctx := context.Background()

	id, err := s.LookupID(ctx, KindSystem, "PQRS")
	if err != nil || id != 5679 {
		t.Errorf("LookupID = %d, %v; want 5679", id, err)
	}

	_, err = s.LookupID(ctx, KindItem, "Unobtainium")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("err = %v, want *NotFoundError", err)
	}
}
