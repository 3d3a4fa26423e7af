package iterx

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotIterable is returned by Values when v cannot be spread into elements.
var ErrNotIterable = errors.New("pipeit: value is not iterable")

// Values collects the elements of v in iteration order.
//
// Slices, arrays, strings (one string per rune), receive channels (drained
// until closed), iter.Seq and iter.Seq2 (pairs as []any{k, v}) are
// supported. Maps are rejected since they have no iteration order.
func Values(v any) ([]any, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrNotIterable)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil

	case reflect.String:
		out := make([]any, 0, rv.Len())
		for _, r := range rv.String() {
			out = append(out, string(r))
		}
		return out, nil

	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			break
		}
		out := make([]any, 0)
		for {
			item, ok := rv.Recv()
			if !ok {
				return out, nil
			}
			out = append(out, item.Interface())
		}

	case reflect.Func:
		if rv.IsNil() {
			break
		}
		if n, ok := seqArity(rv.Type()); ok {
			return collectSeq(rv, n), nil
		}
	}

	return nil, fmt.Errorf("%w: %T", ErrNotIterable, v)
}

// seqArity reports whether t has the shape of iter.Seq (1) or iter.Seq2 (2).
func seqArity(t reflect.Type) (int, bool) {
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return 0, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return 0, false
	}
	switch n := yield.NumIn(); n {
	case 1, 2:
		return n, true
	}
	return 0, false
}

func collectSeq(seq reflect.Value, arity int) []any {
	out := make([]any, 0)
	yieldType := seq.Type().In(0)
	yield := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
		if arity == 1 {
			out = append(out, args[0].Interface())
		} else {
			out = append(out, []any{args[0].Interface(), args[1].Interface()})
		}
		return []reflect.Value{reflect.ValueOf(true)}
	})
	seq.Call([]reflect.Value{yield})
	return out
}
