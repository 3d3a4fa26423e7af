package catalog

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/KasperOmsK/pipeit"
	"github.com/KasperOmsK/pipeit/internal/iterx"
)

type (
	// StartOptions are the keyword arguments of Sum and Enumerate.
	StartOptions struct {
		Start any `mapstructure:"start"`
	}

	// SortOptions are the keyword arguments of Sorted.
	SortOptions struct {
		Key     any  `mapstructure:"key"`
		Reverse bool `mapstructure:"reverse"`
	}

	// FoldOptions are the keyword arguments of Reduce and Accumulate. Func is
	// only read by Accumulate; a nil Func means addition.
	FoldOptions struct {
		Func    any `mapstructure:"func"`
		Initial any `mapstructure:"initial"`
	}

	// FillOptions are the keyword arguments of ZipLongest.
	FillOptions struct {
		FillValue any `mapstructure:"fillvalue"`
	}
)

// List materializes xs.
func List(xs any) ([]any, error) {
	return iterx.Values(xs)
}

// Reversed returns the elements of xs in reverse order.
func Reversed(xs any) ([]any, error) {
	out, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

// Set returns the distinct elements of xs in order of first appearance.
func Set(xs any) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	seen := make(map[any]struct{}, len(in))
	out := make([]any, 0, len(in))
	for _, x := range in {
		if err := hashable(x); err != nil {
			return nil, err
		}
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out, nil
}

// Dict builds a map from the key/value pairs of xs. Later pairs win.
func Dict(xs any) (map[any]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	out := make(map[any]any, len(in))
	for i, x := range in {
		pair, err := iterx.Values(x)
		if err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("catalog: dict element %d has length %d, want 2", i, len(pair))
		}
		if err := hashable(pair[0]); err != nil {
			return nil, err
		}
		out[pair[0]] = pair[1]
	}
	return out, nil
}

// Len returns the number of elements of xs.
func Len(xs any) (int, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return 0, err
	}
	return len(in), nil
}

// All reports whether every element of xs is truthy.
func All(xs any) (bool, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return false, err
	}
	for _, x := range in {
		if !truthy(x) {
			return false, nil
		}
	}
	return true, nil
}

// Any reports whether some element of xs is truthy.
func Any(xs any) (bool, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(in, truthy), nil
}

// Sum adds the elements of xs to opts.Start (0 by default). The result is an
// int when every operand is an integer and a float64 otherwise.
func Sum(xs any, opts StartOptions) (any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	var acc any = 0
	if opts.Start != nil {
		acc = opts.Start
	}
	for _, x := range in {
		if acc, err = add(acc, x); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Min returns the smallest element of xs, compared by opts.Key when set.
// An empty xs yields opts.Default, or an error when there is none.
func Min(xs any, opts KeyOptions) (any, error) {
	return extreme(xs, opts, -1)
}

// Max returns the largest element of xs, compared by opts.Key when set.
// An empty xs yields opts.Default, or an error when there is none.
func Max(xs any, opts KeyOptions) (any, error) {
	return extreme(xs, opts, 1)
}

func extreme(xs any, opts KeyOptions, sign int) (any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}
	if len(in) == 0 {
		if opts.Default != nil {
			return opts.Default, nil
		}
		return nil, fmt.Errorf("catalog: empty sequence has no extreme value")
	}

	best := in[0]
	bestKey, err := key(opts.Key, best)
	if err != nil {
		return nil, err
	}
	for _, x := range in[1:] {
		k, err := key(opts.Key, x)
		if err != nil {
			return nil, err
		}
		c, err := compare(k, bestKey)
		if err != nil {
			return nil, err
		}
		if c*sign > 0 {
			best, bestKey = x, k
		}
	}
	return best, nil
}

// Sorted returns the elements of xs in ascending order, or descending when
// opts.Reverse is set. The sort is stable.
func Sorted(xs any, opts SortOptions) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	keys := make([]any, len(in))
	for i, x := range in {
		if keys[i], err = key(opts.Key, x); err != nil {
			return nil, err
		}
	}

	idx := make([]int, len(in))
	for i := range idx {
		idx[i] = i
	}

	var cmpErr error
	slices.SortStableFunc(idx, func(a, b int) int {
		c, err := compare(keys[a], keys[b])
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		if opts.Reverse {
			return -c
		}
		return c
	})
	if cmpErr != nil {
		return nil, cmpErr
	}

	out := make([]any, len(in))
	for i, j := range idx {
		out[i] = in[j]
	}
	return out, nil
}

// Reduce folds xs from the left with fn, starting from opts.Initial when set
// or from the first element otherwise. A nil fn means addition.
func Reduce(fn any, xs any, opts FoldOptions) (any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	acc := opts.Initial
	if acc == nil {
		if len(in) == 0 {
			return nil, fmt.Errorf("catalog: reduce of empty sequence with no initial value")
		}
		acc, in = in[0], in[1:]
	}
	for _, x := range in {
		if acc, err = fold(fn, acc, x); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Accumulate returns the running results of folding xs with opts.Func,
// starting with opts.Initial when set.
func Accumulate(xs any, opts FoldOptions) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(in)+1)
	acc := opts.Initial
	if acc != nil {
		out = append(out, acc)
	} else if len(in) > 0 {
		acc, in = in[0], in[1:]
		out = append(out, acc)
	}
	for _, x := range in {
		if acc, err = fold(opts.Func, acc, x); err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}

// Join concatenates the elements of xs, which must all be strings, placing
// sep between them.
func Join(sep string, xs any) (string, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(in))
	for i, x := range in {
		s, ok := x.(string)
		if !ok {
			return "", fmt.Errorf("catalog: join element %d is %T, not string", i, x)
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}

// Enumerate pairs each element of xs with its index, starting at opts.Start.
func Enumerate(xs any, opts StartOptions) ([]any, error) {
	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}

	start := 0
	if opts.Start != nil {
		if start, err = cast.ToIntE(opts.Start); err != nil {
			return nil, err
		}
	}

	out := make([]any, len(in))
	for i, x := range in {
		out[i] = []any{start + i, x}
	}
	return out, nil
}

// Zip returns tuples of the i-th elements of each iterable, stopping at the
// shortest one.
func Zip(iterables ...any) ([]any, error) {
	cols, shortest, _, err := columns(iterables)
	if err != nil {
		return nil, err
	}
	return tuples(cols, shortest, nil), nil
}

// ZipLongest is Zip running to the longest iterable, padding the shorter
// ones with opts.FillValue.
func ZipLongest(opts FillOptions, iterables ...any) ([]any, error) {
	cols, _, longest, err := columns(iterables)
	if err != nil {
		return nil, err
	}
	return tuples(cols, longest, opts.FillValue), nil
}

func columns(iterables []any) (cols [][]any, shortest, longest int, err error) {
	cols = make([][]any, len(iterables))
	for i, it := range iterables {
		if cols[i], err = iterx.Values(it); err != nil {
			return nil, 0, 0, err
		}
		if i == 0 || len(cols[i]) < shortest {
			shortest = len(cols[i])
		}
		longest = max(longest, len(cols[i]))
	}
	return cols, shortest, longest, nil
}

func tuples(cols [][]any, n int, fill any) []any {
	out := make([]any, n)
	for i := range n {
		row := make([]any, len(cols))
		for j, col := range cols {
			if i < len(col) {
				row[j] = col[i]
			} else {
				row[j] = fill
			}
		}
		out[i] = row
	}
	return out
}

// Product returns the cartesian product of the iterables as tuples, the
// rightmost iterable advancing fastest.
func Product(iterables ...any) ([]any, error) {
	cols, _, _, err := columns(iterables)
	if err != nil {
		return nil, err
	}

	out := []any{[]any{}}
	for _, col := range cols {
		next := make([]any, 0, len(out)*len(col))
		for _, prefix := range out {
			for _, x := range col {
				row := append(slices.Clone(prefix.([]any)), x)
				next = append(next, row)
			}
		}
		out = next
	}
	return out, nil
}

// Repeat returns x repeated times times.
func Repeat(x any, times int) []any {
	out := make([]any, max(times, 0))
	for i := range out {
		out[i] = x
	}
	return out
}

// Tee returns n independent copies of the elements of xs, two when n is
// omitted.
func Tee(xs any, n ...int) ([]any, error) {
	copies := 2
	switch len(n) {
	case 0:
	case 1:
		copies = n[0]
	default:
		return nil, fmt.Errorf("catalog: tee takes at most one count, got %d", len(n))
	}
	if copies < 0 {
		return nil, fmt.Errorf("catalog: tee count must not be negative, got %d", copies)
	}

	in, err := iterx.Values(xs)
	if err != nil {
		return nil, err
	}
	out := make([]any, copies)
	for i := range out {
		out[i] = slices.Clone(in)
	}
	return out, nil
}

func fold(fn any, acc, x any) (any, error) {
	if fn == nil {
		return add(acc, x)
	}
	return pipeit.Invoke(fn, acc, x)
}

func add(a, b any) (any, error) {
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return sa + sb, nil
		}
	}
	if !isNumber(a) || !isNumber(b) {
		return nil, fmt.Errorf("catalog: cannot add %T and %T", a, b)
	}
	if isInteger(a) && isInteger(b) {
		ia, err := cast.ToInt64E(a)
		if err != nil {
			return nil, err
		}
		ib, err := cast.ToInt64E(b)
		if err != nil {
			return nil, err
		}
		return int(ia + ib), nil
	}
	return cast.ToFloat64(a) + cast.ToFloat64(b), nil
}

// compare orders two numbers or two strings. Two integers are compared
// exactly; any float operand moves the comparison to float64.
func compare(a, b any) (int, error) {
	if isInteger(a) && isInteger(b) {
		return compareIntegers(a, b)
	}
	if isNumber(a) && isNumber(b) {
		fa, err := cast.ToFloat64E(a)
		if err != nil {
			return 0, err
		}
		fb, err := cast.ToFloat64E(b)
		if err != nil {
			return 0, err
		}
		return cmp.Compare(fa, fb), nil
	}

	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb), nil
	}
	return 0, fmt.Errorf("catalog: cannot compare %T with %T", a, b)
}

func compareIntegers(a, b any) (int, error) {
	negA, negB := isNegative(a), isNegative(b)
	switch {
	case negA && !negB:
		return -1, nil
	case negB && !negA:
		return 1, nil
	case negA && negB:
		ia, err := cast.ToInt64E(a)
		if err != nil {
			return 0, err
		}
		ib, err := cast.ToInt64E(b)
		if err != nil {
			return 0, err
		}
		return cmp.Compare(ia, ib), nil
	}

	ua, err := cast.ToUint64E(a)
	if err != nil {
		return 0, err
	}
	ub, err := cast.ToUint64E(b)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(ua, ub), nil
}

func isNegative(x any) bool {
	v := reflect.ValueOf(x)
	return v.Kind() >= reflect.Int && v.Kind() <= reflect.Int64 && v.Int() < 0
}

func hashable(x any) error {
	if x != nil && !reflect.ValueOf(x).Comparable() {
		return fmt.Errorf("catalog: unhashable type %T", x)
	}
	return nil
}

func isNumber(x any) bool {
	if x == nil {
		return false
	}
	k := reflect.TypeOf(x).Kind()
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}

func isInteger(x any) bool {
	if x == nil {
		return false
	}
	k := reflect.TypeOf(x).Kind()
	return k >= reflect.Int && k <= reflect.Uint64
}

// truthy reports whether x counts as true: nil, zero numbers, false, empty
// containers and zero structs do not.
func truthy(x any) bool {
	if x == nil {
		return false
	}

	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return v.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return !v.IsNil()
	}
	return !v.IsZero()
}
