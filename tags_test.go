package apiresult

import (
	"net/http"
	"testing"
)

type requestID string

func TestTagsWith(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://example.com/pandas", http.NoBody)

	tags := NewTags(req, requestID("a"), nil)
	if tags.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tags.Len())
	}

	got, ok := Lookup[*http.Request](tags)
	if !ok || got != req {
		t.Fatalf("Lookup[*http.Request] = %v, %v", got, ok)
	}

	replaced := tags.With(requestID("b"))

	if id, _ := Lookup[requestID](replaced); id != "b" {
		t.Fatalf("later tag did not replace earlier one: %q", id)
	}

	if id, _ := Lookup[requestID](tags); id != "a" {
		t.Fatalf("With mutated the receiver: %q", id)
	}
}

func TestTagsLookupMissing(t *testing.T) {
	var tags Tags

	if _, ok := Lookup[*http.Response](tags); ok {
		t.Fatal("lookup in an empty bag succeeded")
	}

	if _, ok := Lookup[string](NewTags(requestID("a"))); ok {
		t.Fatal("lookup matched an underlying type instead of the exact type")
	}
}

func TestTagsMerge(t *testing.T) {
	a := NewTags(requestID("a"), 1)
	b := NewTags(requestID("b"), "x")

	merged := a.Merge(b)
	if merged.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", merged.Len())
	}

	if id, _ := Lookup[requestID](merged); id != "b" {
		t.Fatalf("merged tag = %q, want b", id)
	}

	if a.Len() != 2 {
		t.Fatal("Merge mutated the receiver")
	}

	if a.Merge(Tags{}).Len() != 2 {
		t.Fatal("merging an empty bag changed the tags")
	}
}

func TestResultTags(t *testing.T) {
	r := Success[int, string](1).WithTags(requestID("a"))

	if id, ok := Tag[requestID](r); !ok || id != "a" {
		t.Fatalf("Tag() = %q, %v", id, ok)
	}

	v, ok := r.TagOf(TypeOf[requestID]())
	if !ok || v != requestID("a") {
		t.Fatalf("TagOf() = %v, %v", v, ok)
	}

	if Success[int, string](1).Tags().Len() != 0 {
		t.Fatal("untagged result has tags")
	}
}
