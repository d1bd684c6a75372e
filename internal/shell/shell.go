// Package shell interprets a small line-oriented command language over a
// set of named property lists. It backs both the script runner and the
// interactive mode of cmd/plist.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/proplist/errors"
	"github.com/wippyai/proplist/metrics"
	"github.com/wippyai/proplist/plist"
	"github.com/wippyai/proplist/pool"
)

// Options configures a Shell.
type Options struct {
	// Arena is the root arena; each list gets a child of it.
	Arena *pool.Arena

	// ListOptions are applied to every list the shell creates.
	ListOptions []plist.Option

	// Reserved and MaxCount are used by "new" when not given.
	Reserved int
	MaxCount int

	// Metrics, when set, observes every list and the type registry.
	Metrics *metrics.Collector

	Logger *zap.Logger

	// Strict stops Run at the first failing command.
	Strict bool
}

type entry struct {
	list  *plist.List
	arena *pool.Arena
	ref   plist.TypeRef
}

// Shell holds named lists and executes commands against them. A Shell is
// safe for concurrent use; commands run one at a time.
type Shell struct {
	opts     Options
	out      io.Writer
	log      *zap.Logger
	registry *plist.Registry
	lists    map[string]*entry
	names    map[plist.TypeRef]string
	current  string
	mu       sync.Mutex
	closed   bool
}

// New creates a shell writing command output to out.
func New(out io.Writer, opts Options) *Shell {
	if opts.Arena == nil {
		opts.Arena = pool.New("shell", 0)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Shell{
		opts:     opts,
		out:      out,
		log:      log,
		registry: plist.NewRegistry(),
		lists:    make(map[string]*entry),
		names:    make(map[plist.TypeRef]string),
	}
	if opts.Metrics != nil {
		s.registry.Subscribe(opts.Metrics)
	}
	return s
}

// Run executes commands read from r, one per line. Blank lines and lines
// starting with # are skipped. Failing commands are reported on the output
// and execution continues, unless the shell is strict.
func (s *Shell) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		err := s.Exec(sc.Text())
		if err == nil {
			continue
		}
		s.Report(err)
		if s.opts.Strict {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return sc.Err()
}

// Report writes err in the shell's error format.
func (s *Shell) Report(err error) {
	fmt.Fprintf(s.out, "error: %v (code %d)\n", err, errors.Code(err))
}

// Exec runs a single command line.
func (s *Shell) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)

	cmd, ok := commands[fields[0]]
	if !ok {
		return errors.NotFound(errors.PhaseCommand, "command", fields[0])
	}
	args := fields[1:]
	if len(args) < cmd.minArgs {
		return usage(fields[0])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Undefined(errors.PhaseCommand, "shell closed")
	}

	s.log.Debug("exec", zap.String("command", fields[0]), zap.Strings("args", args))
	return cmd.run(s, args)
}

// Current returns the name of the selected list, or "".
func (s *Shell) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// List returns the named list.
func (s *Shell) List(name string) (*plist.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lists[name]
	if !ok {
		return nil, false
	}
	return e.list, true
}

// Lists returns the names of all lists, sorted.
func (s *Shell) Lists() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedNames()
}

// Close destroys every list, releases their arenas and shuts down the type
// registry. Commands fail once the shell is closed. Close is idempotent.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, name := range s.sortedNames() {
		s.drop(name)
	}
	if s.opts.Metrics != nil {
		s.registry.Unsubscribe(s.opts.Metrics)
	}
	if err := s.registry.Close(); err != nil {
		s.log.Warn("close registry", zap.Error(err))
	}
	s.closed = true
}

func (s *Shell) sortedNames() []string {
	names := make([]string, 0, len(s.lists))
	for name := range s.lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) selected() (*entry, error) {
	if s.current == "" {
		return nil, errors.Undefined(errors.PhaseCommand, "no list selected")
	}
	return s.lists[s.current], nil
}

func (s *Shell) create(name string, reserved, max int) error {
	if _, exists := s.lists[name]; exists {
		return errors.InvalidInput(errors.PhaseCommand, "list "+strconv.Quote(name)+" exists")
	}

	arena := s.opts.Arena.NewChild(name, 0)
	opts := s.opts.ListOptions
	if s.opts.Metrics != nil {
		opts = append(opts[:len(opts):len(opts)], plist.WithObserver(s.opts.Metrics))
	}
	l, err := plist.Create(arena, reserved, max, opts...)
	if err != nil {
		arena.Release()
		return err
	}
	s.adopt(name, l, arena)
	return nil
}

func (s *Shell) adopt(name string, l *plist.List, arena *pool.Arena) {
	ref := s.registry.Register(l)
	s.lists[name] = &entry{list: l, arena: arena, ref: ref}
	s.names[ref] = name
	s.current = name
}

func (s *Shell) drop(name string) {
	e := s.lists[name]
	e.list.Destroy()
	e.arena.Release()
	s.registry.Unregister(e.ref)
	delete(s.names, e.ref)
	delete(s.lists, name)
	if s.current == name {
		s.current = ""
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveArena(e.arena)
	}
}

// typeName renders a property's type for output.
func (s *Shell) typeName(ref plist.TypeRef) string {
	if ref == 0 {
		return "-"
	}
	if _, ok := s.registry.Resolve(ref); ok {
		return s.names[ref]
	}
	return "#" + strconv.FormatUint(uint64(ref), 10) + "?"
}

func (s *Shell) printProperty(p plist.Property) {
	name := p.Name
	if name == "" {
		name = "-"
	}
	value := "-"
	if p.Value != nil {
		value = strconv.Quote(fmt.Sprint(p.Value))
	}
	s.printf("%d\t%s\t%s\t%s\n", p.Index, name, value, s.typeName(p.Type))
}
