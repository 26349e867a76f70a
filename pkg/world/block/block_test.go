package block

import "testing"

func TestRegistryAirIsZero(t *testing.T) {
	r := NewRegistry()
	b, ok := r.ByID(Air)
	if !ok || b.Name != "air" {
		t.Fatalf("ByID(Air) = %+v, %v", b, ok)
	}
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	id1, err := r.Register(Block{Name: "test:a"})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := r.Register(Block{Name: "test:a", Liquid: true})
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("duplicate register gave %d and %d", id1, id2)
	}
	if id1 != 1 {
		t.Errorf("first id = %d, want 1", id1)
	}
	if _, err := r.Register(Block{}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	if r.Len() != len(corePalette)+1 {
		t.Errorf("Len = %d, want %d", r.Len(), len(corePalette)+1)
	}
	water, ok := r.ByName(Water)
	if !ok || !water.Liquid || !water.Translucent {
		t.Errorf("water = %+v", water)
	}
	if r.MustID(Stone) == Air {
		t.Error("stone should not be air")
	}
	all := r.All()
	for i, b := range all {
		if int(b.ID) != i {
			t.Fatalf("All()[%d].ID = %d", i, b.ID)
		}
	}
}
