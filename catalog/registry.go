// Package catalog is a table of ready-made pipeline stages: common sequence
// utilities (filter, map, join, reversed, print and friends) already wrapped
// with the matching pipeit factory.
//
//	reg := catalog.New()
//	out, err := reg.Run([]string{"abc", "def", "bab"},
//		reg.Stage("reversed"),
//		reg.Stage("filter", containsA),
//		reg.Stage("join", "-"),
//	)
//
// The table is meant to be built once at startup. Register is not safe for
// concurrent use with Lookup; the stages it hands out are.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/KasperOmsK/pipeit"
)

var (
	ErrDuplicate = errors.New("catalog: name already registered")
	ErrUnknown   = errors.New("catalog: unknown name")
)

// Entry is one registered stage constructor.
type Entry struct {
	Name   string
	Policy pipeit.Policy
	New    pipeit.Constructor
}

// Registry maps names to stage constructors and configuration helpers.
type Registry struct {
	out     io.Writer
	entries map[string]Entry
	helpers map[string]Helper
}

type Option func(*Registry)

// WithOutput sets where the print stage writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Registry) { r.out = w }
}

// New returns a registry holding the default stages and helpers.
func New(opts ...Option) *Registry {
	r := &Registry{
		out:     os.Stdout,
		entries: make(map[string]Entry),
		helpers: make(map[string]Helper),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, d := range r.defaults() {
		if err := r.Register(d.name, d.policy, d.target); err != nil {
			panic(err)
		}
	}
	for name, h := range defaultHelpers {
		if err := r.RegisterHelper(name, h); err != nil {
			panic(err)
		}
	}
	return r
}

type definition struct {
	name   string
	policy pipeit.Policy
	target any
}

func (r *Registry) defaults() []definition {
	return []definition{
		// data as the last argument
		{"filter", pipeit.AppendLast, Filter},
		{"filterfalse", pipeit.AppendLast, FilterFalse},
		{"takewhile", pipeit.AppendLast, TakeWhile},
		{"dropwhile", pipeit.AppendLast, DropWhile},
		{"map", pipeit.AppendLast, Map},
		{"flatmap", pipeit.AppendLast, FlatMap},
		{"starmap", pipeit.AppendLast, Starmap},
		{"compress", pipeit.AppendLast, Compress},
		{"list", pipeit.AppendLast, List},
		{"tuple", pipeit.AppendLast, List},
		{"set", pipeit.AppendLast, Set},
		{"dict", pipeit.AppendLast, Dict},
		{"reversed", pipeit.AppendLast, Reversed},
		{"len", pipeit.AppendLast, Len},
		{"all", pipeit.AppendLast, All},
		{"any", pipeit.AppendLast, Any},
		{"sum", pipeit.AppendLast, Sum},
		{"min", pipeit.AppendLast, Min},
		{"max", pipeit.AppendLast, Max},
		{"enumerate", pipeit.AppendLast, Enumerate},
		{"zip", pipeit.AppendLast, Zip},
		{"zip_longest", pipeit.AppendLast, ZipLongest},
		{"chain", pipeit.AppendLast, Chain},
		{"product", pipeit.AppendLast, Product},
		{"reduce", pipeit.AppendLast, Reduce},
		{"join", pipeit.AppendLast, Join},

		// data as the first argument
		{"sorted", pipeit.PrependFirst, Sorted},
		{"accumulate", pipeit.PrependFirst, Accumulate},
		{"groupby", pipeit.PrependFirst, GroupBy},
		{"chunk", pipeit.PrependFirst, Chunk},
		{"repeat", pipeit.PrependFirst, Repeat},
		{"tee", pipeit.PrependFirst, Tee},

		// data spread into arguments
		{"flatten", pipeit.SpreadAll, Chain},
		{"print", pipeit.SpreadAll, r.Print},
	}
}

// Register wraps target with the factory matching policy and stores it
// under name.
func (r *Registry) Register(name string, policy pipeit.Policy, target any) error {
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}

	var ctor pipeit.Constructor
	switch policy {
	case pipeit.AppendLast:
		ctor = pipeit.Pipe(target)
	case pipeit.PrependFirst:
		ctor = pipeit.Pipe0(target)
	case pipeit.SpreadAll:
		ctor = pipeit.PipeStar(target)
	default:
		return fmt.Errorf("catalog: %q: unknown policy %d", name, policy)
	}

	r.entries[name] = Entry{Name: name, Policy: policy, New: ctor}
	return nil
}

// Lookup returns the entry registered under name. The p-prefixed spelling
// ("pfilter") is accepted as an alias of the plain one.
func (r *Registry) Lookup(name string) (Entry, bool) {
	if e, ok := r.entries[name]; ok {
		return e, true
	}
	if rest, ok := strings.CutPrefix(name, "p"); ok {
		e, ok := r.entries[rest]
		return e, ok
	}
	return Entry{}, false
}

// Stage builds the stage registered under name with args bound. It panics
// when name is unknown; use Lookup for names coming from user input.
func (r *Registry) Stage(name string, args ...any) *pipeit.DeferredCall {
	e, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("catalog.Stage: %v: %q", ErrUnknown, name))
	}
	return e.New(args...)
}

// Run is pipeit.Run, provided so that pipelines built from a registry read
// as one expression.
func (r *Registry) Run(v any, stages ...*pipeit.DeferredCall) (any, error) {
	return pipeit.Run(v, stages...)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
