package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// EnvFunc exposes the fields of an item to filter expressions.
type EnvFunc[T any] func(item T) map[string]any

// Filter is a compiled boolean expression over items of type T.
type Filter[T any] struct {
	program *vm.Program
	expr    string
	env     EnvFunc[T]
}

var programs = newProgramCache(128)

// Compile compiles expression against the environment produced by env.
func Compile[T any](expression string, env EnvFunc[T]) (*Filter[T], error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	var zero T
	key := fmt.Sprintf("%T|%s", zero, expression)

	program, ok := programs.Get(key)
	if !ok {
		var err error
		program, err = expr.Compile(expression,
			expr.Env(withHelpers(env(zero))),
			expr.AsBool(),
		)
		if err != nil {
			return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
		}
		programs.Put(key, program)
	}

	return &Filter[T]{
		program: program,
		expr:    expression,
		env:     env,
	}, nil
}

// Match evaluates the filter against item
func (f *Filter[T]) Match(item T) (bool, error) {
	result, err := expr.Run(f.program, withHelpers(f.env(item)))
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, Item: fmt.Sprintf("%v", item), Reason: err.Error(), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{Expression: f.expr, Item: fmt.Sprintf("%v", item), Reason: "expression did not return a boolean"}
	}
	return matched, nil
}

// Apply returns the items that match, preserving order
func (f *Filter[T]) Apply(items []T) ([]T, error) {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// String returns the original expression
func (f *Filter[T]) String() string {
	return f.expr
}

// withHelpers adds the string helpers available to every expression.
func withHelpers(env map[string]any) map[string]any {
	// contains, startsWith and endsWith are reserved operators in expr
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	return env
}
