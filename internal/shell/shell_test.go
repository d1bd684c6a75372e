package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/proplist/errors"
	"github.com/wippyai/proplist/metrics"
	"github.com/wippyai/proplist/plist"
	"github.com/wippyai/proplist/pool"
)

func newShell(t *testing.T, opts Options) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := New(&out, opts)
	t.Cleanup(s.Close)
	return s, &out
}

func run(t *testing.T, s *Shell, out *bytes.Buffer, script string) []string {
	t.Helper()
	out.Reset()
	require.NoError(t, s.Run(context.Background(), strings.NewReader(script)))
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestRequestScenario(t *testing.T) {
	s, out := newShell(t, Options{})

	lines := run(t, s, out, `
# request attributes
new req 2
init 1 method GET
init 2 uri /index.html
init 0 host example.com
define 0
find host
get 1
delete host
list
`)

	assert.Equal(t, []string{
		"created req (reserved 2, max 0)",
		"1",
		"2",
		"3",
		"4",
		"3\thost\t\"example.com\"\t-",
		"1\tmethod\t\"GET\"\t-",
		"deleted \"example.com\"",
		"1\tmethod\t\"GET\"\t-",
		"2\turi\t\"/index.html\"\t-",
		"4\t-\t-\t-",
	}, lines)
}

func TestCapacityLimit(t *testing.T) {
	s, out := newShell(t, Options{})

	lines := run(t, s, out, `
new small 3 5
define 0
define 0
define 0
`)

	require.Len(t, lines, 4)
	assert.Equal(t, "4", lines[1])
	assert.Equal(t, "5", lines[2])
	assert.Contains(t, lines[3], "error: ")
	assert.Contains(t, lines[3], "(code -5)")
}

func TestErrorCodes(t *testing.T) {
	s, out := newShell(t, Options{})
	run(t, s, out, "new l 2")

	tests := []struct {
		line string
		code int
	}{
		{"get 9", errors.CodeInvalidIndex},
		{"find nope", errors.CodeUndefined},
		{"define 5", errors.CodeInvalidIndex},
		{"assign nope x", errors.CodeUndefined},
		{"delete nope", errors.CodeUndefined},
		{"type 1 nolist", errors.CodeUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := s.Exec(tt.line)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.Code(err))
		})
	}

	require.NoError(t, s.Exec("define 1"))
	err := s.Exec("define 1")
	require.Error(t, err)
	assert.Equal(t, errors.CodeAlreadyExists, errors.Code(err))
}

func TestCommandErrors(t *testing.T) {
	s, _ := newShell(t, Options{})

	err := s.Exec("bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.Sentinel(errors.KindNotFound)))

	err = s.Exec("define")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: define")

	err = s.Exec("define 0")
	require.Error(t, err, "no list selected")

	require.NoError(t, s.Exec("new a"))
	err = s.Exec("get x")
	require.Error(t, err)
	kind, _ := errors.KindOf(err)
	assert.Equal(t, errors.KindInvalidInput, kind)

	assert.Error(t, s.Exec("new a"), "duplicate list name")
}

func TestStrict(t *testing.T) {
	s, out := newShell(t, Options{Strict: true})
	err := s.Run(context.Background(), strings.NewReader("new l\nget 3\ndefine 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.NotContains(t, out.String(), "\n1\n", "commands after the failure must not run")

	l, ok := s.List("l")
	require.True(t, ok)
	assert.Equal(t, 0, l.Len())
}

func TestRunCanceled(t *testing.T) {
	s, _ := newShell(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, strings.NewReader("new l\n")), context.Canceled)
	assert.Empty(t, s.Lists())
}

func TestTypesAndDuplicate(t *testing.T) {
	s, out := newShell(t, Options{})

	lines := run(t, s, out, `
new schema
init 0 kind header
new req
init 0 accept text/html
type 1 schema
get 1
dup copy
assign accept */*
use req
get 1
`)
	assert.Equal(t, "1\taccept\t\"text/html\"\tschema", lines[5])
	assert.Equal(t, "created copy from req", lines[6])
	assert.Equal(t, "using req", lines[8])
	assert.Equal(t, "1\taccept\t\"text/html\"\tschema", lines[9], "copy must not affect source")

	copied, ok := s.List("copy")
	require.True(t, ok)
	p, err := copied.FindValue("accept")
	require.NoError(t, err)
	assert.Equal(t, "*/*", p.Value)

	lines = run(t, s, out, `
destroy schema
get 1
type 1 -
get 1
`)
	assert.Equal(t, "destroyed schema", lines[0])
	assert.Regexp(t, `^1\taccept\t"text/html"\t#\d+\?$`, lines[1])
	assert.Equal(t, "1\taccept\t\"text/html\"\t-", lines[3])
}

func TestListsAndDestroy(t *testing.T) {
	arena := pool.New("root", 0)
	s, out := newShell(t, Options{Arena: arena})

	lines := run(t, s, out, "new b\nnew a\ninit 0 x y\nlists")
	assert.Equal(t, "* a\t1 properties\t#2", lines[3])
	assert.Equal(t, "  b\t0 properties\t#1", lines[4])
	assert.NotZero(t, arena.Used())

	run(t, s, out, "destroy\ndestroy b")
	assert.Empty(t, s.Lists())
	assert.Equal(t, "", s.Current())
	assert.Zero(t, arena.Used(), "destroyed lists must return their memory")
}

func TestArenaLimit(t *testing.T) {
	s, out := newShell(t, Options{Arena: pool.New("root", 1024)})

	script := "new l\n" + strings.Repeat("define 0 some-fairly-long-property-name\n", 200)
	lines := run(t, s, out, script)

	last := lines[len(lines)-1]
	assert.Contains(t, last, "(code -4)")
}

func TestTables(t *testing.T) {
	s, out := newShell(t, Options{})

	lines := run(t, s, out, "errstr 10054\nerrstr 10061\nfcgi overloaded\nfcgi 0")
	assert.Equal(t, []string{
		"10054 WSAECONNRESET (retryable)",
		"10061 WSAECONNREFUSED",
		"58 overloaded: application is overloaded (retryable)",
		"0 no_error: no error",
	}, lines)

	assert.Error(t, s.Exec("errstr 1"))
	assert.Error(t, s.Exec("fcgi nope"))
}

func TestHelp(t *testing.T) {
	s, out := newShell(t, Options{})
	lines := run(t, s, out, "help")
	assert.Len(t, lines, len(commandNames))
	for _, name := range commandNames {
		_, ok := commands[name]
		assert.True(t, ok, name)
	}
}

func TestMetrics(t *testing.T) {
	c := metrics.New(nil, "shell")
	s, out := newShell(t, Options{
		Metrics:     c,
		ListOptions: []plist.Option{plist.WithInitialSize(1)},
	})

	run(t, s, out, "new a\ninit 0 k v\ninit 0 k2 v2\nnew b\ndup c\nstats")
	assert.Equal(t, float64(3), testutil.ToFloat64(c.LiveLists))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.TypeRefs))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.Properties))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.EventsTotal.WithLabelValues("grown")))

	run(t, s, out, "destroy a")
	assert.Equal(t, float64(2), testutil.ToFloat64(c.LiveLists))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.Properties))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.ArenaBytes.WithLabelValues("a")))
}

func TestStaleTypeAfterReplace(t *testing.T) {
	s, out := newShell(t, Options{})

	lines := run(t, s, out, `
new schemaA
new req
init 0 body x
type 1 schemaA
destroy schemaA
new schemaB
use req
get 1
lists
`)
	require.Len(t, lines, 10)
	assert.Regexp(t, `^1\tbody\t"x"\t#\d+\?$`, lines[7])
	assert.NotContains(t, lines[7], "schemaB")
	assert.Equal(t, "* req\t1 properties\t#2", lines[8])
	assert.Contains(t, lines[9], "  schemaB\t0 properties\t#")
}

func TestDefineBeyondReserved(t *testing.T) {
	s, out := newShell(t, Options{})

	lines := run(t, s, out, `
new l 2 20
define! 12 far
stats
`)
	assert.Equal(t, "12", lines[1])
	assert.Contains(t, lines[2], "cap 12")

	err := s.Exec("define 13")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidIndex, errors.Code(err))

	err = s.Exec("define! 21")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidIndex, errors.Code(err))
}

func TestDeleteNumericName(t *testing.T) {
	s, out := newShell(t, Options{})

	lines := run(t, s, out, `
new l
init 0 first a
init 0 42 b
delete name:42
find 42
get 1
`)
	assert.Equal(t, "deleted \"b\"", lines[3])
	assert.Contains(t, lines[4], "(code -1)")
	assert.Equal(t, "1\tfirst\t\"a\"\t-", lines[5])

	lines = run(t, s, out, "delete 1\nlist")
	assert.Equal(t, []string{"deleted \"a\""}, lines)
}

func TestClose(t *testing.T) {
	c := metrics.New(nil, "closing")
	arena := pool.New("root", 0)
	s, out := newShell(t, Options{Arena: arena, Metrics: c})

	run(t, s, out, "new a\ninit 0 k v\nnew b")
	assert.Equal(t, float64(2), testutil.ToFloat64(c.TypeRefs))

	s.Close()
	s.Close()
	assert.Empty(t, s.Lists())
	assert.Zero(t, arena.Used())
	assert.Equal(t, float64(0), testutil.ToFloat64(c.TypeRefs))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.LiveLists))

	err := s.Exec("new c")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUndefined, errors.Code(err))
}
