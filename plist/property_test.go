package plist

import (
	"testing"

	"github.com/wippyai/proplist/errors"
	"github.com/wippyai/proplist/pool"
)

func TestDefineExplicitIndex(t *testing.T) {
	tests := []struct {
		name           string
		index          int
		ignoreReserved bool
		wantErr        *errors.Error
	}{
		{"reserved index", 2, false, nil},
		{"beyond reserved", 5, false, ErrInvalidIndex},
		{"beyond reserved ignored", 5, true, nil},
		{"beyond capacity ignored", 20, true, nil},
		{"beyond max", 31, true, ErrInvalidIndex},
		{"negative", -1, true, ErrInvalidIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newList(t, 3, 30)
			idx, err := l.DefineProperty(tt.index, "", tt.ignoreReserved)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idx != tt.index {
				t.Fatalf("got index %d, want %d", idx, tt.index)
			}
			if l.Capacity() < tt.index {
				t.Fatalf("capacity %d does not cover index %d", l.Capacity(), tt.index)
			}
		})
	}
}

func TestDefineAlreadyExists(t *testing.T) {
	l, _ := newList(t, 2, 0)
	if _, err := l.DefineProperty(1, "", false); err != nil {
		t.Fatal(err)
	}
	_, err := l.DefineProperty(1, "", false)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if errors.Code(err) != errors.CodeAlreadyExists {
		t.Fatalf("Code() = %d", errors.Code(err))
	}
}

func TestExplicitIndexAdvancesInitIndex(t *testing.T) {
	l, _ := newList(t, 0, 0)
	if _, err := l.DefineProperty(12, "", true); err != nil {
		t.Fatal(err)
	}
	idx, err := l.DefineProperty(0, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if idx == 12 {
		t.Fatal("auto define reused an occupied explicit index")
	}
	if _, err := l.GetValue(12); err != nil {
		t.Fatalf("explicit index not readable: %v", err)
	}
}

func TestValueAndType(t *testing.T) {
	l, _ := newList(t, 0, 0)
	idx, err := l.DefineProperty(0, "color", false)
	if err != nil {
		t.Fatal(err)
	}

	p, err := l.GetValue(idx)
	if err != nil {
		t.Fatal(err)
	}
	if p.Value != nil || p.Type != 0 || p.Name != "color" {
		t.Fatalf("new property not empty: %+v", p)
	}

	if _, err := l.SetValue(idx, "red", 7); err != nil {
		t.Fatal(err)
	}
	if _, err := l.SetValue(idx, "blue", 0); err != nil {
		t.Fatal(err)
	}
	p, _ = l.GetValue(idx)
	if p.Value != "blue" || p.Type != 7 {
		t.Fatalf("zero type should keep existing type: %+v", p)
	}

	if _, err := l.AssignValue("color", "green", 9); err != nil {
		t.Fatal(err)
	}
	p, _ = l.FindValue("color")
	if p.Value != "green" || p.Type != 9 || p.Index != idx {
		t.Fatalf("assign by name: %+v", p)
	}

	if _, err := l.SetType(idx, 0); err != nil {
		t.Fatal(err)
	}
	p, _ = l.GetValue(idx)
	if p.Type != 0 || p.Value != "green" {
		t.Fatalf("SetType(0) should clear only the type: %+v", p)
	}

	if _, err := l.AssignValue("missing", 1, 0); !errors.Is(err, ErrUndefined) {
		t.Fatalf("assign to unknown name: expected ErrUndefined, got %v", err)
	}
}

func TestInvalidIndexAccess(t *testing.T) {
	l, _ := newList(t, 0, 0)
	idx, _ := l.DefineProperty(0, "", false)

	for _, index := range []int{0, -1, idx + 1, 100} {
		if _, err := l.GetValue(index); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("GetValue(%d): expected ErrInvalidIndex, got %v", index, err)
		}
		if _, err := l.SetValue(index, 1, 0); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("SetValue(%d): expected ErrInvalidIndex, got %v", index, err)
		}
		if _, err := l.NameProperty(index, "x"); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("NameProperty(%d): expected ErrInvalidIndex, got %v", index, err)
		}
	}
}

func TestInitProperty(t *testing.T) {
	l, _ := newList(t, 2, 0)

	idx, err := l.InitProperty(1, "method", "GET", 0)
	if err != nil || idx != 1 {
		t.Fatalf("InitProperty reserved = %d, %v", idx, err)
	}
	idx, err = l.InitProperty(0, "uri", "/index.html", 3)
	if err != nil || idx != 3 {
		t.Fatalf("InitProperty auto = %d, %v", idx, err)
	}
	p, _ := l.FindValue("uri")
	if p.Value != "/index.html" || p.Type != 3 {
		t.Fatalf("unexpected property: %+v", p)
	}

	if _, err := l.InitProperty(10, "x", 1, 0); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("InitProperty outside reserved range: got %v", err)
	}
}

func TestNameRoundTrip(t *testing.T) {
	l, _ := newList(t, 0, 0)
	idx, _ := l.DefineProperty(0, "", false)

	if _, err := l.NameProperty(idx, "alpha"); err != nil {
		t.Fatal(err)
	}
	p, err := l.FindValue("alpha")
	if err != nil || p.Index != idx {
		t.Fatalf("FindValue(alpha) = %+v, %v", p, err)
	}

	if _, err := l.NameProperty(idx, "alpha"); err != nil {
		t.Fatal(err)
	}
	if l.Stats().Names != 1 {
		t.Fatalf("renaming to the same name changed the table: %+v", l.Stats())
	}

	if _, err := l.NameProperty(idx, "beta"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.FindValue("alpha"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("old name still resolves: %v", err)
	}
	if p, _ := l.FindValue("beta"); p.Index != idx {
		t.Fatalf("new name resolves to %d", p.Index)
	}

	if _, err := l.NameProperty(idx, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := l.FindValue("beta"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("unnamed property still resolves: %v", err)
	}
	if l.Stats().Names != 0 {
		t.Fatalf("names left in table: %d", l.Stats().Names)
	}
}

func TestDuplicateNames(t *testing.T) {
	l, _ := newList(t, 0, 0)
	first, _ := l.DefineProperty(0, "dup", false)
	second, _ := l.DefineProperty(0, "dup", false)

	p, err := l.FindValue("dup")
	if err != nil || p.Index != second {
		t.Fatalf("expected most recent %d, got %+v, %v", second, p, err)
	}

	if _, ok := l.DeleteProperty(second, ""); !ok {
		t.Fatal("delete failed")
	}
	p, err = l.FindValue("dup")
	if err != nil || p.Index != first {
		t.Fatalf("expected %d after delete, got %+v, %v", first, p, err)
	}
}

func TestDeleteProperty(t *testing.T) {
	l, _ := newList(t, 0, 0)
	a, _ := l.InitProperty(0, "a", "va", 0)
	b, _ := l.InitProperty(0, "b", "vb", 0)

	v, ok := l.DeleteProperty(a, "")
	if !ok || v != "va" {
		t.Fatalf("delete by index = %v, %v", v, ok)
	}
	if _, err := l.FindValue("a"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("deleted name still resolves: %v", err)
	}

	// an in-range index wins over the name, even when its slot is empty
	if _, ok := l.DeleteProperty(a, "b"); ok {
		t.Fatal("delete of empty in-range index fell back to name")
	}

	v, ok = l.DeleteProperty(0, "b")
	if !ok || v != "vb" {
		t.Fatalf("delete by name = %v, %v", v, ok)
	}
	if l.Len() != 0 {
		t.Fatalf("Len() = %d after deletes", l.Len())
	}
	if _, err := l.GetValue(b); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("deleted index still readable: %v", err)
	}

	if _, ok := l.DeleteProperty(0, "nope"); ok {
		t.Fatal("delete of unknown name succeeded")
	}
}

func TestDeleteThenReuse(t *testing.T) {
	l, _ := newList(t, 0, 0, WithInitialSize(2))
	a, _ := l.DefineProperty(0, "a", false)
	_, _ = l.DefineProperty(0, "b", false)

	l.DeleteProperty(a, "")
	c, err := l.DefineProperty(0, "c", false)
	if err != nil {
		t.Fatal(err)
	}
	if c != a {
		t.Fatalf("expected reuse of %d, got %d", a, c)
	}
	p, _ := l.FindValue("c")
	if p.Value != nil || p.Type != 0 {
		t.Fatalf("reused slot carries stale data: %+v", p)
	}
}

func TestNameNoMemoryRollback(t *testing.T) {
	limit := headerSize + DefaultInitialSize*slotSize + symtabSize(0) + nameSize("a") + 1
	arena := pool.New("bounded", limit)
	l, err := New(arena)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := l.DefineProperty(0, "a", false); err != nil {
		t.Fatalf("first define: %v", err)
	}
	used := arena.Used()

	_, err = l.DefineProperty(0, "bb", false)
	if !errors.Is(err, ErrNoMemory) {
		t.Fatalf("expected ErrNoMemory, got %v", err)
	}
	if errors.Code(err) != errors.CodeNoMemory {
		t.Fatalf("Code() = %d", errors.Code(err))
	}
	if l.Len() != 1 {
		t.Fatalf("failed define left a property behind: Len() = %d", l.Len())
	}
	if arena.Used() != used {
		t.Fatalf("failed define leaked: %d -> %d", used, arena.Used())
	}

	// a failed rename keeps the old name
	if _, err := l.NameProperty(1, "long-name"); !errors.Is(err, ErrNoMemory) {
		t.Fatalf("expected ErrNoMemory on rename, got %v", err)
	}
	if p, err := l.FindValue("a"); err != nil || p.Index != 1 {
		t.Fatalf("old name lost after failed rename: %+v, %v", p, err)
	}
}

func TestEach(t *testing.T) {
	l, _ := newList(t, 0, 0)
	for _, name := range []string{"x", "y", "z"} {
		if _, err := l.InitProperty(0, name, name+"!", 0); err != nil {
			t.Fatal(err)
		}
	}
	l.DeleteProperty(0, "y")

	var names []string
	l.Enumerate(func(name string, value any) {
		names = append(names, name)
		if value != name+"!" {
			t.Errorf("value of %s = %v", name, value)
		}
	})
	if len(names) != 2 || names[0] != "x" || names[1] != "z" {
		t.Fatalf("Enumerate order = %v", names)
	}

	seen := 0
	l.Each(func(p Property) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Fatalf("Each did not stop early: %d", seen)
	}
}

func TestObserverEvents(t *testing.T) {
	rec := &recorder{}
	l, _ := newList(t, 0, 0, WithObserver(rec))

	idx, _ := l.DefineProperty(0, "a", false)
	l.NameProperty(idx, "b")
	l.DeleteProperty(idx, "")

	for _, typ := range []EventType{EventCreated, EventDefined, EventDeleted} {
		if rec.count(typ) != 1 {
			t.Errorf("%s events = %d, want 1", typ, rec.count(typ))
		}
	}
	if rec.count(EventNamed) != 2 {
		t.Errorf("named events = %d, want 2", rec.count(EventNamed))
	}
}

func TestHostLifecycle(t *testing.T) {
	l, err := New(pool.New("host", 0))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Destroy()

	idx, err := l.DefineProperty(0, "host", false)
	if err != nil || idx != 1 {
		t.Fatalf("DefineProperty = %d, %v; want 1", idx, err)
	}
	if _, err := l.SetValue(1, "example.com", 0); err != nil {
		t.Fatal(err)
	}

	p, err := l.FindValue("host")
	if err != nil {
		t.Fatal(err)
	}
	if p.Index != 1 || p.Value != "example.com" || p.Type != 0 {
		t.Fatalf("FindValue = %+v", p)
	}

	v, ok := l.DeleteProperty(0, "host")
	if !ok || v != "example.com" {
		t.Fatalf("DeleteProperty = %v, %v", v, ok)
	}
	if _, err := l.FindValue("host"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
}
