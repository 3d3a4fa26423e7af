/*
Package pipeit lets a caller write a left-to-right pipeline of ordinary
functions instead of nesting calls.

A function is wrapped once with one of three factories. Calling the
wrapper binds every argument but one and returns a DeferredCall, a pipeline
stage. Piping a value into the stage with Into supplies the missing
argument and runs the function immediately.

The factories differ only in where the flowing value goes:

	Pipe(f)(a, b)     // f(a, b, v)   data as the last argument (most functions)
	Pipe0(f)(a, b)    // f(v, a, b)   data as the first argument (methods, slices.X)
	PipeStar(f)(a, b) // f(v0, v1, ..., a, b)  elements of v spread as arguments

Example of a simple pipeline:

	// Wrapping is typically done once, at package level.
	var addIfLess = pipeit.Pipe(func(n int, xs []int) int {
		sum := 0
		for _, x := range xs {
			if x < n {
				sum += x
			}
		}
		return sum
	})

	// Bind 6 now, pipe the slice in later.
	total, err := pipeit.Into([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, addIfLess(6))
	// total == 15

Stages are chained with Run, which is the same as nesting Into calls. Each
stage completes before the next starts:

	out, err := pipeit.Run(words,
		reversed(),
		filter(containsA),
		join("-"),
	)

Stages with nothing to bind are still built explicitly: Pipe(f)() and not
Pipe(f). Piping into a plain function does not compile, since Into only
accepts a *DeferredCall.

Go has no keyword arguments. A Kw passed to a wrapper is decoded into the
target's keyword parameter, its last fixed parameter when that is a struct,
a pointer to a struct or a map keyed by strings:

	type PrintOptions struct {
		Sep string
	}

	func printAll(opts PrintOptions, items ...any) { ... }

	pipeit.Into([]string{"bab", "abc"}, pipeit.PipeStar(printAll)(pipeit.Kw{"sep": "-"}))
	// printAll(PrintOptions{Sep: "-"}, "bab", "abc")

Errors and panics raised by a wrapped function are returned unchanged.
Errors produced while assembling the arguments match ErrNotCallable,
ErrArity, ErrArgType, ErrKeyword or ErrNotIterable.

Callers who prefer compile-time types over reflection can use the generic
Stage constructors Unary, Last, First and Star together with Apply.

A DeferredCall never stores the flowing value and never modifies its bound
arguments, so a single stage can be reused, including from several
goroutines at once.
*/
package pipeit
