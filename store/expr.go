package store

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vireo-tui/vireo/internal/logx"
)

// ExprGetter compiles expression once (§3.2 "a plain getter closure", §9
// design notes) and returns a SlotSource that re-evaluates it against env on
// every read, converting the untyped result to T via convert. env is read by
// reference on every call so callers can mutate the same map (or rebuild it
// from reactive reads) between evaluations; any reactive Get call performed
// while building env before invoking the returned getter registers exactly
// the dependencies this binding actually uses, matching FromGetter's
// transitive-tracking contract.
func ExprGetter[T any](expression string, env func() map[string]any, convert func(any) T) SlotSource[T] {
	program, err := compileExpr(expression)
	if err != nil {
		logx.Default().Error("expr compile failed for %q: %v", expression, err)
		var zero T
		return Literal(zero)
	}
	return FromGetter(func() T {
		e := env()
		out, err := expr.Run(program, e)
		if err != nil {
			logx.Default().Error("expr eval failed for %q: %v", expression, err)
			var zero T
			return zero
		}
		return convert(out)
	})
}

func compileExpr(expression string) (*vm.Program, error) {
	return expr.Compile(expression, expr.AllowUndefinedVariables())
}

// CoerceString converts an expr result to string for text-content bindings,
// the common case the teacher's template resolver handles via fmt.Sprintf.
func CoerceString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// CoerceFloat converts an expr result to float64 for numeric-dimension
// bindings (e.g. a computed width).
func CoerceFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return 0
	}
}
