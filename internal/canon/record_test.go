package canon

import (
	"testing"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

func TestCanonicalizeRecord_Positional(t *testing.T) {
	r := domain.NewPositionalRecord([]string{"a", "", "c"})
	got, err := CanonicalizeRecord(r)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	want := "a" + "\x1f" + "" + "\x1f" + "c"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeRecord_KeyedSortsByKey(t *testing.T) {
	r := domain.NewKeyedRecord([]domain.KV{
		{Key: "b", Value: "2"},
		{Key: "a", Value: "1"},
	})
	got, err := CanonicalizeRecord(r)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	want := "a=1" + "\x1f" + "b=2"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeRecord_KeyedOrderIndependent(t *testing.T) {
	r1 := domain.NewKeyedRecord([]domain.KV{{Key: "z", Value: "1"}, {Key: "a", Value: "2"}})
	r2 := domain.NewKeyedRecord([]domain.KV{{Key: "a", Value: "2"}, {Key: "z", Value: "1"}})
	got1, err := CanonicalizeRecord(r1)
	if err != nil {
		t.Fatalf("canonicalize r1: %v", err)
	}
	got2, err := CanonicalizeRecord(r2)
	if err != nil {
		t.Fatalf("canonicalize r2: %v", err)
	}
	if string(got1) != string(got2) {
		t.Fatalf("expected order-independent output: %q != %q", got1, got2)
	}
}
