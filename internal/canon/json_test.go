package canon

import (
	"testing"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

func TestCanonicalizeJSON_SortsKeys(t *testing.T) {
	got, err := CanonicalizeJSON([]byte(`{"b":1, "a":2}`))
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	const want = `{"a":2,"b":1}`
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeJSON_NoWhitespace(t *testing.T) {
	got, err := CanonicalizeJSON([]byte(`{ "a" : [1, 2,  3] }`))
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	const want = `{"a":[1,2,3]}`
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeJSON_EscapesMinimal(t *testing.T) {
	got, err := CanonicalizeJSON([]byte(`{"s":"a\"b\ncd"}`))
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	const want = `{"s":"a\"b\ncd"}`
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeJSON_NumberFormatting(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`0`, `0`},
		{`-0`, `0`},
		{`1.50`, `1.5`},
		{`100`, `100`},
		{`1e2`, `100`},
		{`1e21`, `1e+21`},
		{`1e-7`, `1e-7`},
		{`-3.25`, `-3.25`},
	}
	for _, c := range cases {
		got, err := CanonicalizeJSON([]byte(c.in))
		if err != nil {
			t.Fatalf("canonicalize %q: %v", c.in, err)
		}
		if string(got) != c.want {
			t.Errorf("CanonicalizeJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalizeJSON_TrailingDataRejected(t *testing.T) {
	if _, err := CanonicalizeJSON([]byte(`{"a":1}{"b":2}`)); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestCanonicalizeJSON_Idempotent(t *testing.T) {
	once, err := CanonicalizeJSON([]byte(`{"z":1,"a":[3,2,1],"m":{"y":1,"x":2}}`))
	if err != nil {
		t.Fatalf("first canonicalize: %v", err)
	}
	twice, err := CanonicalizeJSON(once)
	if err != nil {
		t.Fatalf("second canonicalize: %v", err)
	}
	if string(once) != string(twice) {
		t.Fatalf("not idempotent: %q != %q", once, twice)
	}
}

func TestCanonicalizeAny_RoundTripsGoValue(t *testing.T) {
	type thing struct {
		B int    `json:"b"`
		A string `json:"a"`
	}
	got, err := CanonicalizeAny(thing{B: 1, A: "x"})
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	const want = `{"a":"x","b":1}`
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeAny_RejectsCycle(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	_, err := CanonicalizeAny(m)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var cerr *domain.CanonicalizationError
	if ce, ok := err.(*domain.CanonicalizationError); ok {
		cerr = ce
	}
	if cerr == nil || cerr.Kind != "cycle" {
		t.Fatalf("expected CanonicalizationError{cycle}, got %v", err)
	}
}

func TestCanonicalizeAny_RejectsNonFinite(t *testing.T) {
	_, err := CanonicalizeAny([]byte(`1e400`))
	if err == nil {
		t.Fatal("expected error for overflowing number")
	}
}
