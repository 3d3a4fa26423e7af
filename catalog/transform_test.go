package catalog_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/KasperOmsK/pipeit"
	"github.com/KasperOmsK/pipeit/catalog"

	"github.com/stretchr/testify/require"
)

func TestMap_TransformsValues(t *testing.T) {
	out, err := catalog.Map(func(v int) int { return v * 2 }, []int{1, 2, 3})

	require.NoError(t, err)
	require.Equal(t, []any{2, 4, 6}, out)
}

func TestMap_ForwardsErrors(t *testing.T) {
	_, err := catalog.Map(func(v int) (int, error) {
		if v%2 == 0 {
			return 0, fmt.Errorf("even number: %d", v)
		}
		return v, nil
	}, []int{1, 2, 3})

	require.EqualError(t, err, "even number: 2")
}

func TestFilter_FiltersCorrectly(t *testing.T) {
	out, err := catalog.Filter(func(v int) bool { return v%2 == 0 }, []int{1, 2, 3, 4, 5})

	require.NoError(t, err)
	require.Equal(t, []any{2, 4}, out)
}

func TestFilter_NilPredicateKeepsTruthy(t *testing.T) {
	out, err := catalog.Filter(nil, []any{0, 1, "", "a", nil, []int{}, []int{1}})

	require.NoError(t, err)
	require.Equal(t, []any{1, "a", []int{1}}, out)
}

func TestFilterFalse(t *testing.T) {
	out, err := catalog.FilterFalse(func(v int) bool { return v > 2 }, []int{1, 2, 3, 4})

	require.NoError(t, err)
	require.Equal(t, []any{1, 2}, out)
}

func TestTakeWhileDropWhile(t *testing.T) {
	small := func(v int) bool { return v < 3 }

	taken, err := catalog.TakeWhile(small, []int{1, 2, 3, 1})
	require.NoError(t, err)
	require.Equal(t, []any{1, 2}, taken)

	dropped, err := catalog.DropWhile(small, []int{1, 2, 3, 1})
	require.NoError(t, err)
	require.Equal(t, []any{3, 1}, dropped)

	all, err := catalog.DropWhile(small, []int{1, 2})
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestFlatMap_FlattensInOrder(t *testing.T) {
	out, err := catalog.FlatMap(func(v int) []int { return []int{v, v * 10} }, []int{1, 2, 3})

	require.NoError(t, err)
	require.Equal(t, []any{1, 10, 2, 20, 3, 30}, out)
}

func TestStarmap(t *testing.T) {
	out, err := catalog.Starmap(func(a, b int) int { return a * b }, [][]int{{2, 3}, {4, 5}})

	require.NoError(t, err)
	require.Equal(t, []any{6, 20}, out)
}

func TestCompress(t *testing.T) {
	out, err := catalog.Compress("abcd", []int{1, 0, 1})

	require.NoError(t, err)
	require.Equal(t, []any{"a", "c"}, out)
}

func TestChain_AndFlattenStage(t *testing.T) {
	reg := catalog.New()

	chained, err := pipeit.Into([]int{3}, reg.Stage("chain", []int{1, 2}))
	require.NoError(t, err)
	require.Equal(t, []any{1, 2, 3}, chained)

	flat, err := pipeit.Into([][]string{{"a"}, {"b", "c"}}, reg.Stage("flatten"))
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b", "c"}, flat)
}

func TestChunk_PanicInvalidChunkSize(t *testing.T) {
	require.Panics(t, func() {
		_, _ = catalog.Chunk([]int{1, 2, 3}, -1)
	})

	require.Panics(t, func() {
		_, _ = catalog.Chunk([]int{1, 2, 3}, 0)
	})
}

func TestChunk_GroupsCorrectly(t *testing.T) {
	out, err := pipeit.Into([]int{1, 2, 3, 4, 5}, catalog.New().Stage("chunk", 2))

	require.NoError(t, err)
	require.Equal(t, []any{
		[]any{1, 2},
		[]any{3, 4},
		[]any{5},
	}, out)
}

func TestChunk_ChunksDoNotAlias(t *testing.T) {
	out, err := catalog.Chunk([]int{1, 2, 3, 4}, 2)
	require.NoError(t, err)

	first := out[0].([]any)
	first = append(first, 99)
	first[0] = -1

	require.Equal(t, []any{3, 4}, out[1])
}

func TestGroupBy_GroupsConsecutiveKeys(t *testing.T) {
	out, err := catalog.GroupBy([]string{"A", "A", "B", "B", "A"}, catalog.KeyOptions{})

	require.NoError(t, err)
	require.Equal(t, []any{
		[]any{"A", []any{"A", "A"}},
		[]any{"B", []any{"B", "B"}},
		[]any{"A", []any{"A"}},
	}, out)
}

func TestGroupBy_WithKeyFunction(t *testing.T) {
	firstLetter := func(s string) string { return s[:1] }

	out, err := pipeit.Into([]string{"apple", "avocado", "banana"},
		catalog.New().Stage("groupby", pipeit.Kw{"key": firstLetter}))

	require.NoError(t, err)
	require.Equal(t, []any{
		[]any{"a", []any{"apple", "avocado"}},
		[]any{"b", []any{"banana"}},
	}, out)
}

func TestGroupBy_UncomparableKeys(t *testing.T) {
	_, err := catalog.GroupBy([][]int{{1}, {1}}, catalog.KeyOptions{})

	require.Error(t, err)
}

func TestMap_WithStrings(t *testing.T) {
	out, err := pipeit.Into("ab", catalog.New().Stage("map", strings.ToUpper))

	require.NoError(t, err)
	require.Equal(t, []any{"A", "B"}, out)
}
