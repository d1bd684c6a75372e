package shell

import (
	"strconv"
	"strings"

	"github.com/wippyai/proplist/errtab"
	"github.com/wippyai/proplist/errors"
	"github.com/wippyai/proplist/fcgierr"
	"github.com/wippyai/proplist/plist"
)

type command struct {
	run     func(s *Shell, args []string) error
	usage   string
	summary string
	minArgs int
}

// order of help output
var commandNames = []string{
	"new", "use", "lists", "dup", "destroy",
	"define", "define!", "init", "set", "assign", "name", "type",
	"get", "find", "delete", "list", "stats",
	"errstr", "fcgi", "help",
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"new":     {cmdNew, "new NAME [reserved [max]]", "create a list and select it", 1},
		"use":     {cmdUse, "use NAME", "select a list", 1},
		"lists":   {cmdLists, "lists", "show all lists", 0},
		"dup":     {cmdDup, "dup NEWNAME", "copy the selected list", 1},
		"destroy": {cmdDestroy, "destroy [NAME]", "destroy a list", 0},
		"define":  {cmdDefine, "define INDEX|0 [NAME]", "define an empty property", 1},
		"define!": {cmdDefineAny, "define! INDEX [NAME]", "define at any index, growing the list", 1},
		"init":    {cmdInit, "init INDEX|0 NAME VALUE", "define a property with a value", 3},
		"set":     {cmdSet, "set INDEX VALUE", "set a property value by index", 2},
		"assign":  {cmdAssign, "assign NAME VALUE", "set a property value by name", 2},
		"name":    {cmdName, "name INDEX [NAME]", "rename a property, or clear its name", 1},
		"type":    {cmdType, "type INDEX LIST|-", "set or clear a property type", 2},
		"get":     {cmdGet, "get INDEX", "show a property by index", 1},
		"find":    {cmdFind, "find NAME", "show a property by name", 1},
		"delete":  {cmdDelete, "delete INDEX|NAME|name:NAME", "delete a property", 1},
		"list":    {cmdList, "list", "show every property", 0},
		"stats":   {cmdStats, "stats", "show list and arena accounting", 0},
		"errstr":  {cmdErrstr, "errstr CODE", "name a socket error code", 1},
		"fcgi":    {cmdFcgi, "fcgi KIND", "describe a FastCGI error kind", 1},
		"help":    {cmdHelp, "help", "show this help", 0},
	}
}

func usage(name string) error {
	return errors.InvalidInput(errors.PhaseCommand, "usage: "+commands[name].usage)
}

func parseInt(phase errors.Phase, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(phase, errors.KindInvalidInput).
			Cause(err).
			Detail("%q is not a number", s).
			Build()
	}
	return n, nil
}

// rest joins the arguments from i on, so values may contain spaces.
func rest(args []string, i int) string {
	return strings.Join(args[i:], " ")
}

func cmdNew(s *Shell, args []string) error {
	reserved, max := s.opts.Reserved, s.opts.MaxCount
	var err error
	if len(args) > 1 {
		if reserved, err = parseInt(errors.PhaseCreate, args[1]); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		if max, err = parseInt(errors.PhaseCreate, args[2]); err != nil {
			return err
		}
	}
	if err := s.create(args[0], reserved, max); err != nil {
		return err
	}
	l := s.lists[args[0]].list
	s.printf("created %s (reserved %d, max %d)\n", args[0], l.Reserved(), l.MaxCount())
	return nil
}

func cmdUse(s *Shell, args []string) error {
	if _, ok := s.lists[args[0]]; !ok {
		return errors.Undefined(errors.PhaseCommand, "list "+strconv.Quote(args[0]))
	}
	s.current = args[0]
	s.printf("using %s\n", args[0])
	return nil
}

func cmdLists(s *Shell, _ []string) error {
	for _, name := range s.sortedNames() {
		mark := " "
		if name == s.current {
			mark = "*"
		}
		e := s.lists[name]
		s.printf("%s %s\t%d properties\t#%d\n", mark, name, e.list.Len(), e.ref)
	}
	return nil
}

func cmdDup(s *Shell, args []string) error {
	src, err := s.selected()
	if err != nil {
		return err
	}
	name := args[0]
	if _, exists := s.lists[name]; exists {
		return errors.InvalidInput(errors.PhaseCommand, "list "+strconv.Quote(name)+" exists")
	}

	arena := s.opts.Arena.NewChild(name, 0)
	l, err := src.list.Duplicate(arena, true)
	if err != nil {
		arena.Release()
		return err
	}
	from := s.current
	s.adopt(name, l, arena)
	s.printf("created %s from %s\n", name, from)
	return nil
}

func cmdDestroy(s *Shell, args []string) error {
	name := s.current
	if len(args) > 0 {
		name = args[0]
	}
	if _, ok := s.lists[name]; !ok || name == "" {
		return errors.Undefined(errors.PhaseCommand, "list "+strconv.Quote(name))
	}
	s.drop(name)
	s.printf("destroyed %s\n", name)
	return nil
}

func cmdDefine(s *Shell, args []string) error {
	return define(s, args, false)
}

func cmdDefineAny(s *Shell, args []string) error {
	return define(s, args, true)
}

func define(s *Shell, args []string, ignoreReserved bool) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	index, err := parseInt(errors.PhaseDefine, args[0])
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	idx, err := e.list.DefineProperty(index, name, ignoreReserved)
	if err != nil {
		return err
	}
	s.printf("%d\n", idx)
	return nil
}

func cmdInit(s *Shell, args []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	index, err := parseInt(errors.PhaseDefine, args[0])
	if err != nil {
		return err
	}
	idx, err := e.list.InitProperty(index, args[1], rest(args, 2), 0)
	if err != nil {
		return err
	}
	s.printf("%d\n", idx)
	return nil
}

func cmdSet(s *Shell, args []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	index, err := parseInt(errors.PhaseAssign, args[0])
	if err != nil {
		return err
	}
	idx, err := e.list.SetValue(index, rest(args, 1), 0)
	if err != nil {
		return err
	}
	s.printf("%d\n", idx)
	return nil
}

func cmdAssign(s *Shell, args []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	idx, err := e.list.AssignValue(args[0], rest(args, 1), 0)
	if err != nil {
		return err
	}
	s.printf("%d\n", idx)
	return nil
}

func cmdName(s *Shell, args []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	index, err := parseInt(errors.PhaseName, args[0])
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	idx, err := e.list.NameProperty(index, name)
	if err != nil {
		return err
	}
	s.printf("%d\n", idx)
	return nil
}

func cmdType(s *Shell, args []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	index, err := parseInt(errors.PhaseAssign, args[0])
	if err != nil {
		return err
	}

	var ref plist.TypeRef
	if args[1] != "-" {
		t, ok := s.lists[args[1]]
		if !ok {
			return errors.Undefined(errors.PhaseRegistry, "list "+strconv.Quote(args[1]))
		}
		ref = t.ref
	}
	idx, err := e.list.SetType(index, ref)
	if err != nil {
		return err
	}
	s.printf("%d\n", idx)
	return nil
}

func cmdGet(s *Shell, args []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	index, err := parseInt(errors.PhaseLookup, args[0])
	if err != nil {
		return err
	}
	p, err := e.list.GetValue(index)
	if err != nil {
		return err
	}
	s.printProperty(p)
	return nil
}

func cmdFind(s *Shell, args []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	p, err := e.list.FindValue(args[0])
	if err != nil {
		return err
	}
	s.printProperty(p)
	return nil
}

// cmdDelete treats a numeric argument as an index and anything else as a
// name. A name: prefix forces a name, for properties named like numbers.
func cmdDelete(s *Shell, args []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	index, name := 0, args[0]
	if n, ok := strings.CutPrefix(args[0], "name:"); ok {
		name = n
	} else if n, err := strconv.Atoi(args[0]); err == nil {
		index, name = n, ""
	}
	v, ok := e.list.DeleteProperty(index, name)
	if !ok {
		return errors.Undefined(errors.PhaseDelete, "property "+strconv.Quote(args[0]))
	}
	if v == nil {
		s.printf("deleted\n")
	} else {
		s.printf("deleted %q\n", v)
	}
	return nil
}

func cmdList(s *Shell, _ []string) error {
	e, err := s.selected()
	if err != nil {
		return err
	}
	e.list.Each(func(p plist.Property) bool {
		s.printProperty(p)
		return true
	})
	return nil
}

func cmdStats(s *Shell, _ []string) error {
	if e, err := s.selected(); err == nil {
		st := e.list.Stats()
		s.printf("list %s: len %d cap %d reserved %d max %d init %d last %d names %d buckets %d\n",
			s.current, st.Len, st.Capacity, st.Reserved, st.MaxCount,
			st.InitIndex, st.LastIndex, st.Names, st.Buckets)
	}
	for _, name := range s.sortedNames() {
		a := s.lists[name].arena
		st := a.Stats()
		s.printf("arena %s: used %d peak %d allocs %d frees %d failures %d\n",
			st.Name, st.Used, st.Peak, st.Allocs, st.Frees, st.Failures)
		if s.opts.Metrics != nil {
			s.opts.Metrics.ObserveArena(a)
		}
	}
	root := s.opts.Arena.Stats()
	s.printf("arena %s: used %d peak %d\n", root.Name, root.Used, root.Peak)
	return nil
}

func cmdErrstr(s *Shell, args []string) error {
	code, err := parseInt(errors.PhaseLookup, args[0])
	if err != nil {
		return err
	}
	e, ok := errtab.Lookup(code)
	if !ok {
		return errors.NotFound(errors.PhaseLookup, "socket error", args[0])
	}
	s.printf("%d %s%s\n", e.Code, e.Name, retrySuffix(e.Retryable))
	return nil
}

func cmdFcgi(s *Shell, args []string) error {
	k, ok := fcgierr.Parse(args[0])
	if !ok {
		return errors.NotFound(errors.PhaseLookup, "fastcgi error kind", args[0])
	}
	e := k.Describe()
	s.printf("%d %s: %s%s\n", int(e.Kind), e.Name, e.Description, retrySuffix(e.Retryable))
	return nil
}

func cmdHelp(s *Shell, _ []string) error {
	for _, name := range commandNames {
		c := commands[name]
		s.printf("  %-28s %s\n", c.usage, c.summary)
	}
	return nil
}

func retrySuffix(retryable bool) string {
	if retryable {
		return " (retryable)"
	}
	return ""
}
