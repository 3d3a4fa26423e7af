package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Helper builds a callable from plain values. Helpers stand in for the
// closures a configuration file cannot express, such as the predicate of a
// filter stage.
type Helper func(args ...any) (any, error)

var defaultHelpers = map[string]Helper{
	"contains": stringPredicate(strings.Contains),
	"prefix":   stringPredicate(strings.HasPrefix),
	"suffix":   stringPredicate(strings.HasSuffix),
	"upper":    stringMapper(strings.ToUpper),
	"lower":    stringMapper(strings.ToLower),
	"trim":     stringMapper(strings.TrimSpace),

	"even": parity(0),
	"odd":  parity(1),

	"lt": comparison(func(c int) bool { return c < 0 }),
	"gt": comparison(func(c int) bool { return c > 0 }),
	"eq": comparison(func(c int) bool { return c == 0 }),

	"add": arithmetic(
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b },
	),
	"mul": arithmetic(
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b },
	),

	"identity": func(args ...any) (any, error) {
		if err := arity("identity", args, 0); err != nil {
			return nil, err
		}
		return func(x any) any { return x }, nil
	},
	"len": func(args ...any) (any, error) {
		if err := arity("len", args, 0); err != nil {
			return nil, err
		}
		return Len, nil
	},
}

// RegisterHelper stores h under name.
func (r *Registry) RegisterHelper(name string, h Helper) error {
	if _, ok := r.helpers[name]; ok {
		return fmt.Errorf("%w: helper %q", ErrDuplicate, name)
	}
	r.helpers[name] = h
	return nil
}

// Helper returns the helper registered under name.
func (r *Registry) Helper(name string) (Helper, bool) {
	h, ok := r.helpers[name]
	return h, ok
}

func stringPredicate(test func(s, arg string) bool) Helper {
	return func(args ...any) (any, error) {
		if err := arity("string predicate", args, 1); err != nil {
			return nil, err
		}
		arg, err := cast.ToStringE(args[0])
		if err != nil {
			return nil, err
		}
		return func(x any) bool {
			return test(cast.ToString(x), arg)
		}, nil
	}
}

func stringMapper(fn func(string) string) Helper {
	return func(args ...any) (any, error) {
		if err := arity("string mapper", args, 0); err != nil {
			return nil, err
		}
		return func(x any) string {
			return fn(cast.ToString(x))
		}, nil
	}
}

func parity(rem int64) Helper {
	return func(args ...any) (any, error) {
		if err := arity("parity", args, 0); err != nil {
			return nil, err
		}
		return func(x any) bool {
			n, err := cast.ToInt64E(x)
			return err == nil && n%2 == rem
		}, nil
	}
}

func comparison(ok func(int) bool) Helper {
	return func(args ...any) (any, error) {
		if err := arity("comparison", args, 1); err != nil {
			return nil, err
		}
		ref := args[0]
		return func(x any) bool {
			c, err := compare(x, ref)
			return err == nil && ok(c)
		}, nil
	}
}

// arithmetic builds a mapper taking the helper argument as right operand.
// Two integers go through intOp, anything else through floatOp.
func arithmetic(intOp func(a, b int64) int64, floatOp func(a, b float64) float64) Helper {
	return func(args ...any) (any, error) {
		if err := arity("arithmetic", args, 1); err != nil {
			return nil, err
		}
		operand, err := cast.ToFloat64E(args[0])
		if err != nil {
			return nil, err
		}
		var intOperand int64
		integral := isInteger(args[0])
		if integral {
			if intOperand, err = cast.ToInt64E(args[0]); err != nil {
				return nil, err
			}
		}
		return func(x any) (any, error) {
			if integral && isInteger(x) {
				n, err := cast.ToInt64E(x)
				if err != nil {
					return nil, err
				}
				return int(intOp(n, intOperand)), nil
			}
			v, err := cast.ToFloat64E(x)
			if err != nil {
				return nil, err
			}
			return floatOp(v, operand), nil
		}, nil
	}
}

func arity(name string, args []any, want int) error {
	if len(args) != want {
		return fmt.Errorf("catalog: %s helper takes %d arguments, got %d", name, want, len(args))
	}
	return nil
}
