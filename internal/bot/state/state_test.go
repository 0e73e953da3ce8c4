package state

import (
	"errors"
	"testing"
)

func TestGetSetRoundTrip(t *testing.T) {
	st := New(map[string]any{"title": "initial"})

	if v, ok := st.Get("title"); !ok || v != "initial" {
		t.Errorf("Get(title) = %v, %v", v, ok)
	}
	st.Set("title", "updated")
	if v, _ := st.Get("title"); v != "updated" {
		t.Errorf("after Set, title = %v", v)
	}
	if _, ok := st.Get("missing"); ok {
		t.Error("Get(missing) reported ok")
	}
}

func TestSetPathNested(t *testing.T) {
	st := New(map[string]any{
		"layout": map[string]any{
			"header": map[string]any{"text": "old"},
			"footer": "keep",
		},
	})

	if err := st.SetPath("layout", []string{"header", "text"}, "new"); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if v, ok := st.GetPath("layout", "header", "text"); !ok || v != "new" {
		t.Errorf("GetPath = %v, %v", v, ok)
	}
	// Siblings are untouched.
	if v, ok := st.GetPath("layout", "footer"); !ok || v != "keep" {
		t.Errorf("footer = %v, %v", v, ok)
	}
}

func TestSetPathMissingContainer(t *testing.T) {
	st := New(nil)
	err := st.SetPath("layout", []string{"header", "text"}, "v")
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PathError", err)
	}
	if pe.Key != "layout" {
		t.Errorf("PathError.Key = %q", pe.Key)
	}
}

func TestSetPathNonContainerIntermediate(t *testing.T) {
	st := New(map[string]any{"layout": "a plain string"})
	if err := st.SetPath("layout", []string{"header"}, "v"); err == nil {
		t.Error("expected error indexing into a scalar")
	}
}

func TestObserverFiresOnChange(t *testing.T) {
	st := New(map[string]any{"title": "a"})

	var fired []struct{ old, new any }
	st.Observe("title", func(old, new any) {
		fired = append(fired, struct{ old, new any }{old, new})
	})

	st.Set("title", "b")
	if len(fired) != 1 || fired[0].old != "a" || fired[0].new != "b" {
		t.Fatalf("fired = %v", fired)
	}

	// Writing the same value again does not fire.
	st.Set("title", "b")
	if len(fired) != 1 {
		t.Errorf("observer fired on no-op write, fired = %d times", len(fired))
	}
}

func TestObserverFiresOnNestedWrite(t *testing.T) {
	st := New(map[string]any{"layout": map[string]any{"header": "old"}})

	var count int
	st.Observe("layout", func(old, new any) { count++ })

	if err := st.SetPath("layout", []string{"header"}, "new"); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if count != 1 {
		t.Errorf("observer fired %d times, want 1", count)
	}
	if v, ok := st.GetPath("layout", "header"); !ok || v != "new" {
		t.Errorf("header = %v, %v", v, ok)
	}
}
