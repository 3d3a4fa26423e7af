package catalog

import (
	"fmt"

	"github.com/KasperOmsK/pipeit"
	"github.com/KasperOmsK/pipeit/internal/iterx"
)

// KeyOptions are the keyword arguments of GroupBy, Min and Max.
type KeyOptions struct {
	// Key maps each element to the value used for grouping or comparison.
	// The element itself is used when Key is nil.
	Key any `mapstructure:"key"`
	// Default is returned by Min and Max for an empty input.
	Default any `mapstructure:"default"`
}

// Map calls fn on each element of xs and returns the results in order.
//
// fn may be any function accepting one argument; a trailing error result
// aborts the mapping and is returned as is.
func Map(fn any, xs any) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(in))
	for _, x := range in {
		v, err := pipeit.Invoke(fn, x)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FlatMap calls fn on each element of xs and returns the flattened results.
// fn must return an iterable.
//
// FlatMap is equivalent to calling Chain on the results of Map.
func FlatMap(fn any, xs any) ([]any, error) {
	mapped, err := Map(fn, xs)
	if err != nil {
		return nil, err
	}
	return Chain(mapped...)
}

// Starmap calls fn with the elements of each element of xs as arguments.
func Starmap(fn any, xs any) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(in))
	for _, x := range in {
		args, err := iterx.Values(x)
		if err != nil {
			return nil, err
		}
		v, err := pipeit.Invoke(fn, args...)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Filter returns the elements of xs for which pred returns a truthy value.
// A nil pred keeps the truthy elements.
func Filter(pred any, xs any) ([]any, error) {
	return filter(pred, xs, true)
}

// FilterFalse returns the elements of xs for which pred returns a falsy value.
func FilterFalse(pred any, xs any) ([]any, error) {
	return filter(pred, xs, false)
}

func filter(pred any, xs any, want bool) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(in))
	for _, x := range in {
		ok, err := test(pred, x)
		if err != nil {
			return nil, err
		}
		if ok == want {
			out = append(out, x)
		}
	}
	return out, nil
}

// TakeWhile returns the leading elements of xs for which pred holds.
func TakeWhile(pred any, xs any) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	for i, x := range in {
		ok, err := test(pred, x)
		if err != nil {
			return nil, err
		}
		if !ok {
			return in[:i], nil
		}
	}
	return in, nil
}

// DropWhile skips the leading elements of xs for which pred holds and
// returns the rest.
func DropWhile(pred any, xs any) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	for i, x := range in {
		ok, err := test(pred, x)
		if err != nil {
			return nil, err
		}
		if !ok {
			return in[i:], nil
		}
	}
	return []any{}, nil
}

// Compress returns the elements of data whose matching selector is truthy.
// It stops at the shorter of the two.
func Compress(data any, selectors any) ([]any, error) {
	in, err := iterx.Values(data)
	if err != nil {
		return nil, err
	}
	sel, err := iterx.Values(selectors)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0)
	for i := range min(len(in), len(sel)) {
		if truthy(sel[i]) {
			out = append(out, in[i])
		}
	}
	return out, nil
}

// Chain returns the elements of each iterable, one iterable after the other.
func Chain(iterables ...any) ([]any, error) {
	out := make([]any, 0)
	for _, it := range iterables {
		in, err := iterx.Values(it)
		if err != nil {
			return nil, err
		}
		out = append(out, in...)
	}
	return out, nil
}

// Chunk groups the elements of xs into slices of the given size.
//
// The final chunk may be smaller than size. Each chunk has its own backing
// array, retaining one chunk never pins the others.
//
// Chunk panics if size is not positive.
func Chunk(xs any, size int) ([]any, error) {
	if size <= 0 {
		panic("catalog.Chunk: size must be positive")
	}

	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, (len(in)+size-1)/size)
	for start := 0; start < len(in); start += size {
		end := min(start+size, len(in))
		chunk := make([]any, end-start)
		copy(chunk, in[start:end])
		out = append(out, chunk)
	}
	return out, nil
}

// GroupBy groups consecutive elements of xs sharing the same key and returns
// one []any{key, group} pair per group, group being a []any.
//
// GroupBy does not reorder values. Values are grouped only when they appear
// consecutively with the same key; when the key changes, the current group
// is emitted and a new one is started.
//
// For example, given input values:
//
//	A, A, B, B, A
//
// GroupBy will emit:
//
//	[A, A], [B, B], [A]
//
// Keys must be comparable.
func GroupBy(xs any, opts KeyOptions) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0)
	var (
		group      []any
		currentKey any
	)
	for _, x := range in {
		k, err := key(opts.Key, x)
		if err != nil {
			return nil, err
		}
		same, err := equal(k, currentKey)
		if err != nil {
			return nil, err
		}
		if len(group) > 0 && !same {
			out = append(out, []any{currentKey, group})
			group = nil
		}
		currentKey = k
		group = append(group, x)
	}

	// emit the last group
	if len(group) > 0 {
		out = append(out, []any{currentKey, group})
	}
	return out, nil
}

func test(pred any, x any) (bool, error) {
	if pred == nil {
		return truthy(x), nil
	}
	v, err := pipeit.Invoke(pred, x)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

func key(fn any, x any) (any, error) {
	if fn == nil {
		return x, nil
	}
	return pipeit.Invoke(fn, x)
}

func equal(a, b any) (same bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("catalog: cannot compare %T with %T", a, b)
		}
	}()
	return a == b, nil
}
