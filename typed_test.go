package pipeit_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/KasperOmsK/pipeit"

	"github.com/stretchr/testify/require"
)

func TestLast_FlowingValueIsLast(t *testing.T) {
	stage := pipeit.Last(addIfLessImpl)(6)

	require.Equal(t, 15, pipeit.Apply(digits(), stage))
	require.Equal(t, 1, pipeit.Apply([]int{1, 8}, stage))
}

func TestFirst_FlowingValueIsFirst(t *testing.T) {
	stage := pipeit.First(strings.Repeat)(3)

	require.Equal(t, "xxx", pipeit.Apply("x", stage))
}

func TestStar_SpreadsThenBound(t *testing.T) {
	joinAll := func(parts ...string) string { return strings.Join(parts, "/") }

	require.Equal(t, "a/b/c", pipeit.Apply([]string{"a", "b"}, pipeit.Star(joinAll)("c")))
	require.Equal(t, "", pipeit.Apply(nil, pipeit.Star(joinAll)()))
}

func TestStar_BoundValuesCopied(t *testing.T) {
	joinAll := func(parts ...string) string { return strings.Join(parts, "/") }
	bound := []string{"z"}
	stage := pipeit.Star(joinAll)(bound...)

	bound[0] = "changed"

	require.Equal(t, "a/z", pipeit.Apply([]string{"a"}, stage))
}

func TestCompose_MatchesNestedApply(t *testing.T) {
	itoa := pipeit.Unary(strconv.Itoa)()
	wrap := pipeit.Last(func(brackets string, s string) string {
		return brackets[:1] + s + brackets[1:]
	})("[]")

	composed := pipeit.Compose(itoa, wrap)

	require.Equal(t, pipeit.Apply(pipeit.Apply(42, itoa), wrap), pipeit.Apply(42, composed))
	require.Equal(t, "[42]", pipeit.Apply(42, composed))
}
