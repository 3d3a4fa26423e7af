package catalog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KasperOmsK/pipeit"
	"github.com/KasperOmsK/pipeit/catalog"

	"github.com/stretchr/testify/require"
)

func TestRegistry_ReverseFilterJoin(t *testing.T) {
	reg := catalog.New()
	containsA := func(s string) bool { return strings.Contains(s, "a") }

	out, err := reg.Run([]string{"abc", "def", "bab", "qqq"},
		reg.Stage("reversed"),
		reg.Stage("filter", containsA),
		reg.Stage("join", "-"),
	)

	require.NoError(t, err)
	require.Equal(t, "bab-abc", out)
}

func TestRegistry_FilterMapList(t *testing.T) {
	reg := catalog.New()

	out, err := reg.Run([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		reg.Stage("pfilter", func(x int) bool { return x%2 == 1 }),
		reg.Stage("pmap", func(x int) int { return x + 1 }),
		reg.Stage("plist"),
	)

	require.NoError(t, err)
	require.Equal(t, []any{2, 4, 6, 8, 10}, out)
}

func TestRegistry_PrintSpreadsItems(t *testing.T) {
	var buf bytes.Buffer
	reg := catalog.New(catalog.WithOutput(&buf))

	_, err := pipeit.Into([]string{"bab", "abc"}, reg.Stage("print", pipeit.Kw{"sep": "-"}))
	require.NoError(t, err)

	_, err = pipeit.Into([]int{1, 2}, reg.Stage("pprint"))
	require.NoError(t, err)

	_, err = pipeit.Into([]int{3}, reg.Stage("print", pipeit.Kw{"end": ";"}))
	require.NoError(t, err)

	require.Equal(t, "bab-abc\n1 2\n3;", buf.String())
}

func TestRegistry_Lookup(t *testing.T) {
	reg := catalog.New()

	e, ok := reg.Lookup("sorted")
	require.True(t, ok)
	require.Equal(t, "sorted", e.Name)
	require.Equal(t, pipeit.PrependFirst, e.Policy)

	alias, ok := reg.Lookup("psorted")
	require.True(t, ok)
	require.Equal(t, e.Name, alias.Name)

	flatten, ok := reg.Lookup("flatten")
	require.True(t, ok)
	require.Equal(t, pipeit.SpreadAll, flatten.Policy)

	_, ok = reg.Lookup("nope")
	require.False(t, ok)

	_, ok = reg.Lookup("p")
	require.False(t, ok)
}

func TestRegistry_StageUnknownPanics(t *testing.T) {
	reg := catalog.New()

	require.Panics(t, func() {
		reg.Stage("nope")
	})
}

func TestRegistry_Register(t *testing.T) {
	reg := catalog.New()

	require.NoError(t, reg.Register("repeat_str", pipeit.PrependFirst, strings.Repeat))
	require.ErrorIs(t, reg.Register("repeat_str", pipeit.AppendLast, strings.Repeat), catalog.ErrDuplicate)
	require.ErrorIs(t, reg.Register("filter", pipeit.AppendLast, strings.Repeat), catalog.ErrDuplicate)
	require.Error(t, reg.Register("bad", pipeit.Policy(0), strings.Repeat))

	out, err := pipeit.Into("ab", reg.Stage("repeat_str", 2))
	require.NoError(t, err)
	require.Equal(t, "abab", out)
}

func TestRegistry_Names(t *testing.T) {
	names := catalog.New().Names()

	require.IsIncreasing(t, names)
	for _, want := range []string{"filter", "map", "list", "reversed", "join", "print", "reduce", "zip"} {
		require.Contains(t, names, want)
	}
	require.NotContains(t, names, "pfilter")
}

func TestRegistry_Helpers(t *testing.T) {
	reg := catalog.New()

	contains, ok := reg.Helper("contains")
	require.True(t, ok)

	pred, err := contains("a")
	require.NoError(t, err)

	out, err := pipeit.Into([]string{"abc", "xyz"}, reg.Stage("filter", pred))
	require.NoError(t, err)
	require.Equal(t, []any{"abc"}, out)

	_, err = contains()
	require.Error(t, err)

	require.NoError(t, reg.RegisterHelper("always", func(args ...any) (any, error) {
		return func(any) bool { return true }, nil
	}))
	require.ErrorIs(t, reg.RegisterHelper("always", nil), catalog.ErrDuplicate)
}
