package pipeit

import (
	"fmt"
	"maps"
	"reflect"
	"runtime"
	"strings"

	"github.com/KasperOmsK/pipeit/internal/iterx"
)

type (
	// Kw holds keyword arguments. A Kw passed to a Constructor is never a
	// positional argument; it is decoded into the target's keyword parameter
	// when the call is finalized.
	Kw map[string]any

	// Constructor binds arguments to a wrapped target and returns the
	// resulting pipeline stage.
	Constructor func(args ...any) *DeferredCall
)

// DeferredCall is a partially applied call awaiting exactly one more value,
// the flowing value supplied by Into.
//
// A DeferredCall is immutable and may be reused across any number of Into
// calls, including concurrently.
type DeferredCall struct {
	target reflect.Value
	args   []any
	kw     Kw
	policy Policy
}

// Pipe wraps target so that the flowing value is passed after the bound
// positional arguments:
//
//	Into(xs, Pipe(f)(a, b, Kw{"c": d})) == f(a, b, xs, {c: d})
func Pipe(target any) Constructor {
	return wrap(target, AppendLast)
}

// Pipe0 wraps target so that the flowing value is passed before the bound
// positional arguments:
//
//	Into(xs, Pipe0(f)(a, b)) == f(xs, a, b)
func Pipe0(target any) Constructor {
	return wrap(target, PrependFirst)
}

// PipeStar wraps target so that each element of the flowing value becomes a
// positional argument, ahead of the bound positional arguments:
//
//	Into([]any{x, y}, PipeStar(f)(a)) == f(x, y, a)
//
// The flowing value must be iterable, see ErrNotIterable.
func PipeStar(target any) Constructor {
	return wrap(target, SpreadAll)
}

func wrap(target any, policy Policy) Constructor {
	fn := reflect.ValueOf(target)
	return func(args ...any) *DeferredCall {
		return newDeferredCall(fn, policy, args)
	}
}

func newDeferredCall(fn reflect.Value, policy Policy, args []any) *DeferredCall {
	d := &DeferredCall{
		target: fn,
		args:   make([]any, 0, len(args)),
		policy: policy,
	}
	for _, arg := range args {
		if kw, ok := arg.(Kw); ok {
			if d.kw == nil {
				d.kw = make(Kw, len(kw))
			}
			maps.Copy(d.kw, kw)
			continue
		}
		d.args = append(d.args, arg)
	}
	return d
}

// Call inserts v among the bound arguments according to the stage's policy
// and invokes the target.
//
// Whatever the target returns is returned as is: a trailing error result
// becomes the error, a single remaining result is returned directly and
// several results are returned as []any. Panics raised by the target are not
// recovered.
func (d *DeferredCall) Call(v any) (any, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil stage", ErrNotCallable)
	}

	var args []any
	switch d.policy {
	case AppendLast:
		args = make([]any, 0, len(d.args)+1)
		args = append(args, d.args...)
		args = append(args, v)
	case PrependFirst:
		args = make([]any, 0, len(d.args)+1)
		args = append(args, v)
		args = append(args, d.args...)
	case SpreadAll:
		elems, err := iterx.Values(v)
		if err != nil {
			return nil, err
		}
		args = append(elems, d.args...)
	default:
		return nil, fmt.Errorf("pipeit: unknown policy %d", d.policy)
	}

	return invoke(d.target, args, d.kw)
}

// Policy returns the insertion policy the stage was built with.
func (d *DeferredCall) Policy() Policy {
	return d.policy
}

// Name returns the name of the wrapped function, or an empty string when the
// target is not a function.
func (d *DeferredCall) Name() string {
	return funcName(d.target)
}

func (d *DeferredCall) String() string {
	parts := make([]string, 0, len(d.args)+1)
	for _, a := range d.args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	if len(d.kw) > 0 {
		parts = append(parts, fmt.Sprintf("%v", map[string]any(d.kw)))
	}
	return fmt.Sprintf("%s[%s](%s)", d.Name(), d.policy, strings.Join(parts, ", "))
}

// Into pipes v into d and returns the result. It is the pipe operator:
// Into(Into(v, d1), d2) evaluates d1 first and feeds its result to d2.
func Into(v any, d *DeferredCall) (any, error) {
	return d.Call(v)
}

// Run pipes v through stages from left to right, eagerly, stopping at the
// first error. The error is returned unchanged.
func Run(v any, stages ...*DeferredCall) (any, error) {
	out := v
	for _, stage := range stages {
		var err error
		out, err = Into(out, stage)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Invoke calls target with args using the same argument assembly as a
// finalized DeferredCall. Kw values among args are keyword arguments.
func Invoke(target any, args ...any) (any, error) {
	d := newDeferredCall(reflect.ValueOf(target), AppendLast, args)
	return invoke(d.target, d.args, d.kw)
}

func funcName(fn reflect.Value) string {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}
