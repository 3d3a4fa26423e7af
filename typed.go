package pipeit

// Stage is the statically typed counterpart of DeferredCall: a function of
// one flowing value whose other arguments were bound when it was built.
// Stages are built by Unary, Last, First and Star and consumed by Apply.
type Stage[In, Out any] struct {
	fn func(In) Out
}

// Apply pipes v into s. Apply(Apply(v, s1), s2) chains stages left to right.
func Apply[In, Out any](v In, s Stage[In, Out]) Out {
	return s.fn(v)
}

// Compose returns a stage equivalent to piping through first, then second.
func Compose[A, B, C any](first Stage[A, B], second Stage[B, C]) Stage[A, C] {
	return Stage[A, C]{fn: func(v A) C {
		return second.fn(first.fn(v))
	}}
}

// Unary wraps a single argument function. The returned constructor takes no
// arguments but must still be called to build the stage.
func Unary[In, Out any](f func(In) Out) func() Stage[In, Out] {
	return func() Stage[In, Out] {
		return Stage[In, Out]{fn: f}
	}
}

// Last is the typed form of Pipe for two argument functions: the flowing
// value is the last argument.
func Last[A, In, Out any](f func(A, In) Out) func(A) Stage[In, Out] {
	return func(a A) Stage[In, Out] {
		return Stage[In, Out]{fn: func(v In) Out {
			return f(a, v)
		}}
	}
}

// First is the typed form of Pipe0 for two argument functions: the flowing
// value is the first argument.
func First[In, A, Out any](f func(In, A) Out) func(A) Stage[In, Out] {
	return func(a A) Stage[In, Out] {
		return Stage[In, Out]{fn: func(v In) Out {
			return f(v, a)
		}}
	}
}

// Star is the typed form of PipeStar: the elements of the flowing slice are
// passed first, followed by the bound values.
func Star[E, Out any](f func(...E) Out) func(bound ...E) Stage[[]E, Out] {
	return func(bound ...E) Stage[[]E, Out] {
		bound = append([]E(nil), bound...)
		return Stage[[]E, Out]{fn: func(v []E) Out {
			args := make([]E, 0, len(v)+len(bound))
			args = append(args, v...)
			args = append(args, bound...)
			return f(args...)
		}}
	}
}
