package pipeit

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

var errorType = reflect.TypeFor[error]()

// invoke assembles args and kw against fn's signature, calls fn and unpacks
// its results. args must be owned by the caller; it may be modified.
func invoke(fn reflect.Value, args []any, kw Kw) (any, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, describe(fn))
	}

	in, err := assemble(fn.Type(), args, kw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", funcName(fn), err)
	}

	return results(fn.Type(), fn.Call(in))
}

// assemble converts args into call arguments for a function of type t.
//
// The keyword parameter of a function is its last fixed parameter when that
// parameter is a struct, a pointer to a struct or a map keyed by strings.
// Keyword arguments are decoded into it; when there are none and the
// positional arguments do not supply it, its zero value is passed.
func assemble(t reflect.Type, args []any, kw Kw) ([]reflect.Value, error) {
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}

	sink := -1
	if fixed > 0 && isKeywordType(t.In(fixed-1)) {
		sink = fixed - 1
	}

	switch {
	case len(kw) > 0:
		if sink < 0 {
			return nil, fmt.Errorf("%w: %s takes no keyword arguments", ErrKeyword, t)
		}
		v, err := decodeKeywords(t.In(sink), kw)
		if err != nil {
			return nil, err
		}
		args = slices.Insert(args, min(sink, len(args)), v)
	case sink >= 0 && len(args) >= sink && (len(args) == sink || !fits(args[sink], t.In(sink))):
		args = slices.Insert(args, sink, zeroKeywords(t.In(sink)))
	}

	if t.IsVariadic() {
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: %s takes at least %d, got %d", ErrArity, t, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, t, fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var param reflect.Type
		if i >= fixed {
			param = t.In(fixed).Elem()
		} else {
			param = t.In(i)
		}

		v, err := coerce(arg, param)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %v", ErrArgType, i, err)
		}
		in[i] = v
	}
	return in, nil
}

func results(t reflect.Type, out []reflect.Value) (any, error) {
	var err error
	if n := len(out); n > 0 && t.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	}

	vals := make([]any, len(out))
	for i, v := range out {
		vals[i] = v.Interface()
	}
	return vals, err
}

func isKeywordType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	case reflect.Map:
		return t.Key().Kind() == reflect.String
	}
	return false
}

func fits(arg any, t reflect.Type) bool {
	return arg == nil || reflect.TypeOf(arg).AssignableTo(t)
}

func zeroKeywords(t reflect.Type) any {
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface()
	case reflect.Map:
		return reflect.MakeMap(t).Interface()
	}
	return reflect.Zero(t).Interface()
}

func decodeKeywords(t reflect.Type, kw Kw) (any, error) {
	target := t
	if t.Kind() == reflect.Pointer {
		target = t.Elem()
	}

	out := reflect.New(target)
	if target.Kind() == reflect.Map {
		out.Elem().Set(reflect.MakeMap(target))
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out.Interface(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyword, err)
	}
	if err := dec.Decode(map[string]any(kw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyword, err)
	}

	if t.Kind() == reflect.Pointer {
		return out.Interface(), nil
	}
	return out.Elem().Interface(), nil
}

func coerce(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		if nillable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", t)
	}
	return convert(reflect.ValueOf(arg), t)
}

func convert(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			if nillable(t) {
				return reflect.Zero(t), nil
			}
			return reflect.Value{}, fmt.Errorf("cannot use nil as %s", t)
		}
		v = v.Elem()
	}

	if v.Type().AssignableTo(t) {
		return v, nil
	}

	switch {
	case isNumber(v.Kind()) && isNumber(t.Kind()):
		if err := checkRange(v, t); err != nil {
			return reflect.Value{}, err
		}
		return v.Convert(t), nil

	case (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && t.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := range v.Len() {
			elem, err := convert(v.Index(i), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), t)
}

// checkRange reports an error when converting the number v to t would
// truncate, overflow or change its sign.
func checkRange(v reflect.Value, t reflect.Type) error {
	zero := reflect.New(t).Elem()
	overflow := func() error { return fmt.Errorf("%v overflows %s", v, t) }

	switch {
	case isFloat(v.Kind()):
		f := v.Float()
		switch {
		case isFloat(t.Kind()):
			if !math.IsInf(f, 0) && !math.IsNaN(f) && zero.OverflowFloat(f) {
				return overflow()
			}
		case math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f):
			return fmt.Errorf("cannot use %v as %s without truncation", f, t)
		case isSigned(t.Kind()):
			if f < math.MinInt64 || f >= math.MaxInt64 || zero.OverflowInt(int64(f)) {
				return overflow()
			}
		default:
			if f < 0 || f >= math.MaxUint64 || zero.OverflowUint(uint64(f)) {
				return overflow()
			}
		}

	case isSigned(v.Kind()):
		n := v.Int()
		switch {
		case isFloat(t.Kind()):
		case isSigned(t.Kind()):
			if zero.OverflowInt(n) {
				return overflow()
			}
		default:
			if n < 0 || zero.OverflowUint(uint64(n)) {
				return overflow()
			}
		}

	default:
		n := v.Uint()
		switch {
		case isFloat(t.Kind()):
		case isSigned(t.Kind()):
			if n > math.MaxInt64 || zero.OverflowInt(int64(n)) {
				return overflow()
			}
		default:
			if zero.OverflowUint(n) {
				return overflow()
			}
		}
	}
	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || isFloat(k)
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func describe(fn reflect.Value) string {
	if !fn.IsValid() {
		return "<nil>"
	}
	return fn.Type().String()
}
