package formstate_test

import (
	"reflect"
	"testing"

	formstate "github.com/reoring/formstate"
)

func data(v any) *formstate.Node { return formstate.FromAny(v) }

func TestLookup_WalksContainers(t *testing.T) {
	root := data(map[string]any{
		"address": map[string]any{"city": "Kyoto"},
		"tags":    []any{"a", "b"},
	})
	f, ok := formstate.Lookup(root, formstate.SplitPath("address.city"))
	if !ok || f.Value.ScalarValue() != "Kyoto" {
		t.Fatalf("expected Kyoto, got %+v ok=%v", f.Value, ok)
	}
	f, ok = formstate.Lookup(root, formstate.SplitPath("tags[1]"))
	if !ok || f.Value.ScalarValue() != "b" {
		t.Fatalf("expected b, got %+v ok=%v", f.Value, ok)
	}
	if _, ok := formstate.Lookup(root, formstate.SplitPath("address.zip")); ok {
		t.Fatalf("missing key must not resolve")
	}
	if _, ok := formstate.Lookup(root, formstate.SplitPath("tags[1].x")); ok {
		t.Fatalf("walking through a scalar must fail")
	}
}

func TestSetPaths_MaterializesContainersByNextSegment(t *testing.T) {
	root := formstate.Mapping()
	formstate.SetPaths(root, []formstate.Path{
		formstate.SplitPath("tags[1]"),
		formstate.SplitPath("address.city"),
	}, formstate.Scalar("x"))

	got := root.Interface()
	want := map[string]any{
		"tags":    []any{nil, "x"},
		"address": map[string]any{"city": "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestUpdatePaths_ConditionalOverwrite(t *testing.T) {
	root := data(map[string]any{"a": "old"})
	formstate.UpdatePaths(root, []formstate.Path{formstate.SplitPath("a"), formstate.SplitPath("b")},
		func(_ formstate.Path, prev *formstate.Node) *formstate.Node {
			if prev != nil {
				return prev // keep existing values
			}
			return formstate.Scalar("new")
		})
	f, _ := formstate.Lookup(root, formstate.SplitPath("a"))
	if f.Value.ScalarValue() != "old" {
		t.Fatalf("existing value must survive, got %v", f.Value.ScalarValue())
	}
	f, _ = formstate.Lookup(root, formstate.SplitPath("b"))
	if f.Value.ScalarValue() != "new" {
		t.Fatalf("missing value must be created, got %v", f.Value.ScalarValue())
	}
}

func TestWalkAll_SequencesAreLeaves(t *testing.T) {
	root := data(map[string]any{
		"name": []any{"msg1", "msg2"},
		"address": map[string]any{
			"_errors": []any{"object level"},
		},
	})
	var visited []string
	formstate.WalkAll(root, func(p formstate.Path, n *formstate.Node) bool {
		visited = append(visited, p.String())
		if n.Kind() == formstate.KindSequence {
			// must not descend into sequences
			for _, v := range visited {
				if v == p.String()+"[0]" {
					t.Fatalf("descended into sequence at %s", p)
				}
			}
		}
		return true
	})
	want := []string{"address", "address._errors", "name"}
	if !reflect.DeepEqual(visited, want) {
		t.Fatalf("unexpected visit order: %v", visited)
	}
}

func TestDeletePath_MappingAndSequence(t *testing.T) {
	root := data(map[string]any{"a": "x", "tags": []any{"a", "b"}})
	formstate.DeletePath(root, formstate.SplitPath("a"))
	if _, ok := formstate.Lookup(root, formstate.SplitPath("a")); ok {
		t.Fatalf("deleted mapping key must be absent")
	}
	formstate.DeletePath(root, formstate.SplitPath("tags[0]"))
	if _, ok := formstate.Lookup(root, formstate.SplitPath("tags[0]")); ok {
		t.Fatalf("deleted sequence slot must be absent")
	}
	if _, ok := formstate.Lookup(root, formstate.SplitPath("tags[1]")); !ok {
		t.Fatalf("sibling slot must survive")
	}
}
