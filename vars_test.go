package hiera

import (
	"slices"
	"testing"
)

func TestVars_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	v := NewVars(
		Var{Name: "environment", Value: "unittest"},
		Var{Name: "fqdn", Value: "ima-superstar"},
		Var{Name: "::custom_fact", Value: "helloworld"},
	)

	want := []Var{
		{Name: "environment", Value: "unittest"},
		{Name: "fqdn", Value: "ima-superstar"},
		{Name: "::custom_fact", Value: "helloworld"},
	}
	if got := v.Pairs(); !slices.Equal(got, want) {
		t.Fatalf("unexpected pairs: got %v want %v", got, want)
	}
}

func TestVars_SetUpdatesInPlace(t *testing.T) {
	t.Parallel()

	v := NewVars()
	v.Set("environment", "developer")
	v.Set("osfamily", "Debian")
	v.Set("environment", "production")

	want := []Var{
		{Name: "environment", Value: "production"},
		{Name: "osfamily", Value: "Debian"},
	}
	if got := v.Pairs(); !slices.Equal(got, want) {
		t.Fatalf("unexpected pairs: got %v want %v", got, want)
	}

	value, ok := v.Get("environment")
	if !ok || value != "production" {
		t.Fatalf("expected updated value, got (%q, %v)", value, ok)
	}
}

func TestVars_ZeroValueUsable(t *testing.T) {
	t.Parallel()

	var v Vars
	if v.Len() != 0 {
		t.Fatalf("expected empty store, got %d", v.Len())
	}
	if _, ok := v.Get("anything"); ok {
		t.Fatal("expected miss on empty store")
	}

	v.Set("host", "db01")
	if value, ok := v.Get("host"); !ok || value != "db01" {
		t.Fatalf("expected stored value, got (%q, %v)", value, ok)
	}
}

func TestVars_PairsIsDefensiveCopy(t *testing.T) {
	t.Parallel()

	v := NewVars(Var{Name: "environment", Value: "unittest"})

	pairs := v.Pairs()
	pairs[0].Value = "mutated"

	if value, _ := v.Get("environment"); value != "unittest" {
		t.Fatalf("internal state mutated through Pairs copy: %q", value)
	}
}

func TestVars_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := NewVars(Var{Name: "environment", Value: "unittest"})
	copied := orig.clone()
	copied.Set("environment", "mutated")
	copied.Set("extra", "value")

	if value, _ := orig.Get("environment"); value != "unittest" {
		t.Fatalf("original mutated through clone: %q", value)
	}
	if orig.Len() != 1 {
		t.Fatalf("original grew through clone: %d", orig.Len())
	}
}
