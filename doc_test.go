package pipeit_test

import (
	"fmt"
	"slices"
	"strings"

	"github.com/KasperOmsK/pipeit"
)

// Wrapping at package level plays the role of a decorator.
var addIfLess = pipeit.Pipe(func(n int, xs []int) int {
	sum := 0
	for _, x := range xs {
		if x < n {
			sum += x
		}
	}
	return sum
})

var (
	reversed = pipeit.Pipe(func(xs []string) []string {
		out := slices.Clone(xs)
		slices.Reverse(out)
		return out
	})

	filter = pipeit.Pipe(func(keep func(string) bool, xs []string) []string {
		var out []string
		for _, x := range xs {
			if keep(x) {
				out = append(out, x)
			}
		}
		return out
	})

	join = pipeit.Pipe(func(sep string, xs []string) string {
		return strings.Join(xs, sep)
	})
)

type PrintOptions struct {
	Sep string
	End *string
}

func printAll(opts PrintOptions, items ...any) {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprint(item)
	}
	end := "\n"
	if opts.End != nil {
		end = *opts.End
	}
	fmt.Print(strings.Join(parts, opts.Sep), end)
}

// Example builds a three stage pipeline that reverses a list of words, keeps
// those containing an "a" and joins them.
func Example() {
	words := []string{"abc", "def", "bab", "qqq"}
	containsA := func(s string) bool { return strings.Contains(s, "a") }

	out, err := pipeit.Run(words,
		reversed(),
		filter(containsA),
		join("-"),
	)
	if err != nil {
		fmt.Println("pipeline error:", err)
		return
	}
	fmt.Println(out)
	// Output: bab-abc
}

func ExamplePipe() {
	total, _ := pipeit.Into([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, addIfLess(6))
	fmt.Println(total)
	// Output: 15
}

func ExamplePipe0() {
	keepIf := pipeit.Pipe0(func(xs []int, keep func(int) bool) []int {
		var out []int
		for _, x := range xs {
			if keep(x) {
				out = append(out, x)
			}
		}
		return out
	})

	evens, _ := pipeit.Into([]int{1, 2, 3, 4}, keepIf(func(x int) bool { return x%2 == 0 }))
	fmt.Println(evens)
	// Output: [2 4]
}

func ExamplePipeStar() {
	pprint := pipeit.PipeStar(printAll)

	_, _ = pipeit.Into([]string{"bab", "abc"}, pprint(pipeit.Kw{"sep": "-"}))
	// Output: bab-abc
}

func ExampleKw() {
	pprint := pipeit.PipeStar(printAll)

	_, _ = pipeit.Into([]int{1, 2, 3}, pprint(pipeit.Kw{"sep": ", ", "end": ".\n"}))
	// Output: 1, 2, 3.
}

func ExampleApply() {
	upper := pipeit.Unary(strings.ToUpper)
	exclaim := pipeit.Last(func(suffix, s string) string { return s + suffix })

	fmt.Println(pipeit.Apply(pipeit.Apply("go", upper()), exclaim("!")))
	// Output: GO!
}
