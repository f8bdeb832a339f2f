package formstate_test

import (
	"testing"
	"time"

	formstate "github.com/reoring/formstate"
)

func pathsOf(ps []formstate.Path) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func TestComparePaths_Reflexive(t *testing.T) {
	trees := []*formstate.Node{
		data(map[string]any{"name": ""}),
		data(map[string]any{"a": map[string]any{"b": []any{1.0, 2.0}}, "c": true}),
		formstate.Mapping(),
	}
	for _, tree := range trees {
		if diff := formstate.ComparePaths(tree, tree.Clone()); len(diff) != 0 {
			t.Fatalf("expected empty diff against itself, got %v", pathsOf(diff))
		}
	}
}

func TestComparePaths_SingleLeafChange(t *testing.T) {
	a := data(map[string]any{"name": "Al", "age": 30})
	b := data(map[string]any{"name": "", "age": 30})
	diff := formstate.ComparePaths(a, b)
	if len(diff) != 1 || diff[0].String() != "name" {
		t.Fatalf("expected [name], got %v", pathsOf(diff))
	}
}

func TestComparePaths_ArrayLengthAndElements(t *testing.T) {
	a := data(map[string]any{"tags": []any{"a", "b", "c"}})
	b := data(map[string]any{"tags": []any{"a", "x"}})
	diff := pathsOf(formstate.ComparePaths(a, b))
	want := map[string]bool{"tags[1]": true, "tags[2]": true}
	if len(diff) != len(want) {
		t.Fatalf("unexpected diff %v", diff)
	}
	for _, p := range diff {
		if !want[p] {
			t.Fatalf("unexpected path %s in %v", p, diff)
		}
	}
}

func TestComparePaths_MissingKeyEmitsLeaves(t *testing.T) {
	a := data(map[string]any{"address": map[string]any{"city": "Kyoto", "zip": "600"}})
	b := data(map[string]any{})
	diff := pathsOf(formstate.ComparePaths(a, b))
	if len(diff) != 2 || diff[0] != "address.city" || diff[1] != "address.zip" {
		t.Fatalf("expected address leaves, got %v", diff)
	}
}

func TestComparePaths_DatesByInstant(t *testing.T) {
	utc := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("x", 3600))
	a := formstate.Mapping()
	a.Set("at", formstate.Scalar(utc))
	b := formstate.Mapping()
	b.Set("at", formstate.Scalar(offset))
	if diff := formstate.ComparePaths(a, b); len(diff) != 0 {
		t.Fatalf("same instant must compare equal, got %v", pathsOf(diff))
	}
	c := formstate.Mapping()
	c.Set("at", formstate.Scalar(utc.Add(time.Second)))
	if diff := formstate.ComparePaths(a, c); len(diff) != 1 {
		t.Fatalf("different instants must differ, got %v", pathsOf(diff))
	}
}

func TestComparePaths_FilesByIdentity(t *testing.T) {
	f1 := &formstate.File{Name: "a.txt", Data: []byte("same")}
	f2 := &formstate.File{Name: "a.txt", Data: []byte("same")}
	a := formstate.Mapping()
	a.Set("upload", formstate.Scalar(f1))
	b := formstate.Mapping()
	b.Set("upload", formstate.Scalar(f1))
	if diff := formstate.ComparePaths(a, b); len(diff) != 0 {
		t.Fatalf("same file pointer must compare equal, got %v", pathsOf(diff))
	}
	c := formstate.Mapping()
	c.Set("upload", formstate.Scalar(f2))
	if diff := formstate.ComparePaths(a, c); len(diff) != 1 {
		t.Fatalf("equal content but distinct files must differ, got %v", pathsOf(diff))
	}
}

func TestComparePaths_NumbersByValueAcrossKinds(t *testing.T) {
	a := formstate.Mapping()
	a.Set("n", formstate.Scalar(int64(3)))
	b := formstate.Mapping()
	b.Set("n", formstate.Scalar(3.0))
	if diff := formstate.ComparePaths(a, b); len(diff) != 0 {
		t.Fatalf("3 and 3.0 must compare equal, got %v", pathsOf(diff))
	}
}
