package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wippyai/proplist/plist"
	"github.com/wippyai/proplist/pool"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	return New(nil, "test")
}

func TestListEvents(t *testing.T) {
	c := newTestCollector(t)
	arena := pool.New("req", 0)

	l, err := plist.New(arena, plist.WithObserver(c), plist.WithInitialSize(2))
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "b", "c"} {
		if _, err := l.DefineProperty(0, name, false); err != nil {
			t.Fatal(err)
		}
	}
	l.DeleteProperty(0, "b")

	if v := testutil.ToFloat64(c.EventsTotal.WithLabelValues("defined")); v != 3 {
		t.Errorf("defined events = %v, want 3", v)
	}
	if v := testutil.ToFloat64(c.EventsTotal.WithLabelValues("deleted")); v != 1 {
		t.Errorf("deleted events = %v, want 1", v)
	}
	if v := testutil.ToFloat64(c.LiveLists); v != 1 {
		t.Errorf("live lists = %v, want 1", v)
	}
	if v := testutil.ToFloat64(c.Properties); v != 2 {
		t.Errorf("properties = %v, want 2", v)
	}
	if n := testutil.CollectAndCount(c.SlotCapacity); n != 1 {
		t.Errorf("slot capacity series = %d, want 1", n)
	}

	dup, err := l.Duplicate(nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if v := testutil.ToFloat64(c.LiveLists); v != 2 {
		t.Errorf("live lists after duplicate = %v, want 2", v)
	}
	if v := testutil.ToFloat64(c.Properties); v != 4 {
		t.Errorf("properties after duplicate = %v, want 4", v)
	}

	dup.Destroy()
	l.Destroy()
	if v := testutil.ToFloat64(c.LiveLists); v != 0 {
		t.Errorf("live lists after destroy = %v, want 0", v)
	}
	if v := testutil.ToFloat64(c.Properties); v != 0 {
		t.Errorf("properties after destroy = %v, want 0", v)
	}
}

func TestRegistryEvents(t *testing.T) {
	c := newTestCollector(t)
	reg := plist.NewRegistry()
	reg.Subscribe(c)

	l, _ := plist.New(pool.New("types", 0))
	ref := reg.Register(l)
	if v := testutil.ToFloat64(c.TypeRefs); v != 1 {
		t.Errorf("type refs = %v, want 1", v)
	}
	reg.Unregister(ref)
	if v := testutil.ToFloat64(c.TypeRefs); v != 0 {
		t.Errorf("type refs = %v, want 0", v)
	}
}

func TestObserveArena(t *testing.T) {
	c := newTestCollector(t)
	arena := pool.New("conn", 64)
	arena.Malloc(40)
	arena.Malloc(40)

	c.ObserveArena(arena)
	if v := testutil.ToFloat64(c.ArenaBytes.WithLabelValues("conn")); v != 40 {
		t.Errorf("arena bytes = %v, want 40", v)
	}
	if v := testutil.ToFloat64(c.ArenaFailures.WithLabelValues("conn")); v != 1 {
		t.Errorf("arena failures = %v, want 1", v)
	}
}

func TestHandler(t *testing.T) {
	c := newTestCollector(t)
	l, _ := plist.New(pool.New("h", 0), plist.WithObserver(c))
	l.DefineProperty(0, "x", false)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `test_list_events_total{event="defined"} 1`) {
		t.Fatalf("metrics output missing defined counter:\n%s", body)
	}
}
