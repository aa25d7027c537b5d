package preset

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// evaluator compiles expr-lang expressions once and runs them against a cell environment.
type evaluator struct {
	cache sync.Map // expression string → compiled *vm.Program
}

func (e *evaluator) evaluate(expression string, env map[string]any) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

// compile does not pin the environment's types: "number" is nil for text cells
// and a float for numeric ones, and the same program serves both.
func (e *evaluator) compile(expression string) (*vm.Program, error) {
	if cached, ok := e.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.cache.Store(expression, program)
	return program, nil
}

// CheckExpression reports a syntax error in expression without running it.
func CheckExpression(expression string) error {
	_, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	return err
}
