package formstate_test

import (
	"testing"

	formstate "github.com/reoring/formstate"
)

func leafErrors(path, msg string) *formstate.Node {
	return formstate.MapErrors(formstate.Issues{{Path: formstate.SplitPath(path), Message: msg}}, nil)
}

func kindAt(t *testing.T, tree *formstate.Node, path string) formstate.Kind {
	t.Helper()
	f, ok := formstate.Lookup(tree, formstate.SplitPath(path))
	if !ok {
		t.Fatalf("expected entry at %s", path)
	}
	return f.Value.Kind()
}

func TestShouldValidate_SubmitMethodsSkipOtherTriggers(t *testing.T) {
	for _, m := range []formstate.ValidationMethod{formstate.MethodOnSubmit, formstate.MethodSubmitOnly} {
		pol := formstate.EventPolicy{Method: m}
		for _, et := range []formstate.EventType{formstate.EventInput, formstate.EventBlur, formstate.EventProgrammatic} {
			if pol.ShouldValidate(formstate.ChangeEvent{Type: et}) {
				t.Fatalf("method %v must skip event %v", m, et)
			}
		}
		if !pol.ShouldValidate(formstate.ChangeEvent{Type: formstate.EventSubmit}) {
			t.Fatalf("method %v must validate on submit", m)
		}
	}
	pol := formstate.EventPolicy{Method: formstate.MethodAuto}
	if !pol.ShouldValidate(formstate.ChangeEvent{Type: formstate.EventInput}) {
		t.Fatalf("auto must not blanket-skip")
	}
}

func TestApply_ForceDisplaysEverything(t *testing.T) {
	pol := formstate.EventPolicy{Method: formstate.MethodAuto}
	out := pol.Apply(leafErrors("name", "x"), formstate.Mapping(), formstate.ChangeEvent{Type: formstate.EventProgrammatic}, true)
	if kindAt(t, out, "name") != formstate.KindSequence {
		t.Fatalf("force must display the error")
	}
}

func TestApply_LeafErrorShowsOnBlurOfChangedField(t *testing.T) {
	pol := formstate.EventPolicy{Method: formstate.MethodAuto}
	newTree := leafErrors("name", "x")
	evPaths := []formstate.Path{formstate.SplitPath("name")}

	out := pol.Apply(newTree, formstate.Mapping(), formstate.ChangeEvent{Type: formstate.EventInput, Paths: evPaths}, false)
	if kindAt(t, out, "name") != formstate.KindUndefined {
		t.Fatalf("input event must defer the error (suppressed-but-remembered)")
	}

	out = pol.Apply(newTree, formstate.Mapping(), formstate.ChangeEvent{Type: formstate.EventBlur, Paths: evPaths}, false)
	if kindAt(t, out, "name") != formstate.KindSequence {
		t.Fatalf("blur of the changed field must display the error")
	}

	out = pol.Apply(newTree, formstate.Mapping(), formstate.ChangeEvent{Type: formstate.EventBlur, Paths: []formstate.Path{formstate.SplitPath("other")}}, false)
	if kindAt(t, out, "name") != formstate.KindUndefined {
		t.Fatalf("blur of an unrelated field must not display the error")
	}
}

func TestApply_OnInputDisplaysImmediately(t *testing.T) {
	pol := formstate.EventPolicy{Method: formstate.MethodOnInput}
	out := pol.Apply(leafErrors("name", "x"), formstate.Mapping(),
		formstate.ChangeEvent{Type: formstate.EventInput, Paths: []formstate.Path{formstate.SplitPath("name")}}, false)
	if kindAt(t, out, "name") != formstate.KindSequence {
		t.Fatalf("oninput must display matching errors on input events")
	}
}

func TestApply_ImmediateSingleValueFastPath(t *testing.T) {
	pol := formstate.EventPolicy{Method: formstate.MethodAuto}
	out := pol.Apply(leafErrors("agree", "required"), formstate.Mapping(),
		formstate.ChangeEvent{Type: formstate.EventInput, Immediate: true, Paths: []formstate.Path{formstate.SplitPath("agree")}}, false)
	if kindAt(t, out, "agree") != formstate.KindSequence {
		t.Fatalf("immediate single-value inputs must display on input")
	}
}

func TestApply_StickyOnceShown(t *testing.T) {
	pol := formstate.EventPolicy{Method: formstate.MethodAuto}
	prev := leafErrors("name", "old") // previously displayed at this path
	out := pol.Apply(leafErrors("name", "new"), prev,
		formstate.ChangeEvent{Type: formstate.EventInput, Paths: []formstate.Path{formstate.SplitPath("name")}}, false)
	if kindAt(t, out, "name") != formstate.KindSequence {
		t.Fatalf("a previously displayed path must re-display on input")
	}
	// the cleared-but-remembered form of the key is sticky too
	prevCleared := formstate.MergeErrors(formstate.Mapping(), leafErrors("name", "old"), false)
	out = pol.Apply(leafErrors("name", "new"), prevCleared,
		formstate.ChangeEvent{Type: formstate.EventInput, Paths: []formstate.Path{formstate.SplitPath("name")}}, false)
	if kindAt(t, out, "name") != formstate.KindSequence {
		t.Fatalf("an undefined-valued previous key still marks display history")
	}
}

func TestApply_MultipleGroupFollowsSibling(t *testing.T) {
	pol := formstate.EventPolicy{Method: formstate.MethodAuto}
	prev := leafErrors("prefs[0]", "sibling shown")
	out := pol.Apply(leafErrors("prefs[1]", "x"), prev,
		formstate.ChangeEvent{Type: formstate.EventInput, Multiple: true, Paths: []formstate.Path{formstate.SplitPath("prefs[1]")}}, false)
	if kindAt(t, out, "prefs[1]") != formstate.KindSequence {
		t.Fatalf("a group member must display once a sibling does")
	}

	out = pol.Apply(leafErrors("prefs[1]", "x"), formstate.Mapping(),
		formstate.ChangeEvent{Type: formstate.EventInput, Multiple: true, Paths: []formstate.Path{formstate.SplitPath("prefs[1]")}}, false)
	if kindAt(t, out, "prefs[1]") != formstate.KindUndefined {
		t.Fatalf("with no sibling displayed the group member defers")
	}
}

func objectError(path, msg string) *formstate.Node {
	shape := formstate.Shape{}
	cur := shape
	for _, seg := range formstate.SplitPath(path) {
		next := formstate.Shape{}
		cur[seg.Key()] = next
		cur = next
	}
	return formstate.MapErrors(formstate.Issues{{Path: formstate.SplitPath(path), Message: msg}}, shape)
}

func TestApply_ObjectErrorNeedsBlurAndTaintHistory(t *testing.T) {
	taint := formstate.NewTaintEngine(data(map[string]any{"address": map[string]any{"city": ""}}))
	pol := formstate.EventPolicy{Method: formstate.MethodAuto, Taint: taint}
	newTree := objectError("address", "incomplete")
	ev := formstate.ChangeEvent{Type: formstate.EventBlur, Paths: []formstate.Path{formstate.SplitPath("other")}}

	out := pol.Apply(newTree, formstate.Mapping(), ev, false)
	if kindAt(t, out, "address._errors") != formstate.KindUndefined {
		t.Fatalf("object error without taint history must stay suppressed")
	}

	taint.Update(data(map[string]any{"address": map[string]any{"city": "K"}}), formstate.Taint)
	out = pol.Apply(newTree, formstate.Mapping(), ev, false)
	if kindAt(t, out, "address._errors") != formstate.KindSequence {
		t.Fatalf("object error with taint history must display on blur")
	}
}

func TestApply_SuppressedErrorsAreRememberedNotDropped(t *testing.T) {
	pol := formstate.EventPolicy{Method: formstate.MethodAuto}
	out := pol.Apply(leafErrors("name", "x"), formstate.Mapping(),
		formstate.ChangeEvent{Type: formstate.EventInput, Paths: []formstate.Path{formstate.SplitPath("name")}}, false)
	f, ok := formstate.Lookup(out, formstate.SplitPath("name"))
	if !ok {
		t.Fatalf("suppressed error must still occupy its path")
	}
	if f.Value.Kind() != formstate.KindUndefined {
		t.Fatalf("suppressed error must be explicit Undefined")
	}
}
