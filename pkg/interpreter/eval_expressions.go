package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"rinha/interpreter-go/pkg/ast"
	"rinha/interpreter-go/pkg/runtime"
)

// discardName binds nothing when used as a let name.
const discardName = "_"

func (i *Interpreter) evaluate(node ast.Term, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.Identifier:
		return i.evaluateIdentifier(n, env)
	case *ast.FunctionExpression:
		return runtime.NewClosure(n, env), nil
	case *ast.CallExpression:
		return i.evaluateCall(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.IfExpression:
		return i.evaluateIfExpression(n, env)
	case *ast.LetExpression:
		return i.evaluateLetExpression(n, env)
	case *ast.TupleExpression:
		return i.evaluateTupleExpression(n, env)
	case *ast.FirstExpression:
		return i.evaluateProjection(n, n.Value, env, true)
	case *ast.SecondExpression:
		return i.evaluateProjection(n, n.Value, env, false)
	case *ast.PrintExpression:
		return i.evaluatePrint(n, env)
	case nil:
		return nil, fmt.Errorf("interpreter: nil term")
	default:
		return nil, fmt.Errorf("interpreter: unsupported term kind %s", n.Kind())
	}
}

func (i *Interpreter) evaluateIdentifier(id *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	val, err := env.Lookup(id.Text)
	if err != nil {
		var unbound *runtime.UnboundError
		if errors.As(err, &unbound) {
			return nil, newRuntimeError(ReasonUndefinedVariable, id, "Undefined variable", undefinedDetail(id.Text, env))
		}
		return nil, err
	}
	return val, nil
}

// maxScopeHint bounds the names listed after an undefined variable.
const maxScopeHint = 8

func undefinedDetail(name string, env *runtime.Environment) string {
	detail := fmt.Sprintf("Undefined variable %q", name)
	names := env.Names()
	if len(names) == 0 {
		return detail
	}
	more := ""
	if len(names) > maxScopeHint {
		names, more = names[:maxScopeHint], ", ..."
	}
	return fmt.Sprintf("%s (in scope: %s%s)", detail, strings.Join(names, ", "), more)
}

func (i *Interpreter) evaluateCall(call *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	calleeVal, err := i.evaluate(call.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeVal.(*runtime.ClosureValue)
	if !ok {
		return nil, newRuntimeError(ReasonNotCallable, call.Callee, "Not callable",
			fmt.Sprintf("Expected a function, found a value of type %q", calleeVal.Kind()))
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluate(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.invokeClosure(fn, args, call)
}

func (i *Interpreter) invokeClosure(fn *runtime.ClosureValue, args []runtime.Value, call *ast.CallExpression) (runtime.Value, error) {
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(ReasonArityMismatch, call, "Argument count mismatch",
			fmt.Sprintf("Expected %d arguments, found %d", fn.Arity(), len(args)))
	}
	localEnv := fn.Closure
	for idx, name := range fn.Params {
		localEnv = localEnv.Bind(name, args[idx])
	}
	result, err := i.evaluate(fn.Body(), localEnv)
	if err != nil {
		var rtErr *RuntimeError
		if errors.As(err, &rtErr) {
			return nil, rtErr.withCallSite(call.Location())
		}
		return nil, err
	}
	return result, nil
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluate(expr.Condition, env)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(runtime.BoolValue)
	if !ok {
		return nil, typeMismatch(expr.Condition, "Expected condition of type %q, found %q", runtime.KindBool, cond.Kind())
	}
	if b.Val {
		return i.evaluate(expr.Then, env)
	}
	return i.evaluate(expr.Otherwise, env)
}

// A let whose value is a function literal reserves its name first, so the
// closure captures a frame that already sees itself.
func (i *Interpreter) evaluateLetExpression(expr *ast.LetExpression, env *runtime.Environment) (runtime.Value, error) {
	name := expr.Name.Text
	if fn, ok := expr.Value.(*ast.FunctionExpression); ok && name != discardName {
		letEnv, slot := env.Reserve(name)
		if err := slot.Set(runtime.NewClosure(fn, letEnv)); err != nil {
			return nil, err
		}
		return i.evaluate(expr.Next, letEnv)
	}
	value, err := i.evaluate(expr.Value, env)
	if err != nil {
		return nil, err
	}
	if name == discardName {
		return i.evaluate(expr.Next, env)
	}
	return i.evaluate(expr.Next, env.Bind(name, value))
}

func (i *Interpreter) evaluateTupleExpression(expr *ast.TupleExpression, env *runtime.Environment) (runtime.Value, error) {
	first, err := i.evaluate(expr.First, env)
	if err != nil {
		return nil, err
	}
	second, err := i.evaluate(expr.Second, env)
	if err != nil {
		return nil, err
	}
	return runtime.TupleValue{First: first, Second: second}, nil
}

func (i *Interpreter) evaluateProjection(expr ast.Term, operand ast.Term, env *runtime.Environment, first bool) (runtime.Value, error) {
	val, err := i.evaluate(operand, env)
	if err != nil {
		return nil, err
	}
	tuple, ok := val.(runtime.TupleValue)
	if !ok {
		name := "second"
		if first {
			name = "first"
		}
		return nil, newRuntimeError(ReasonNotATuple, expr, "Not a tuple",
			fmt.Sprintf("The %s function expects a tuple, found %q", name, val.Kind()))
	}
	if first {
		return tuple.First, nil
	}
	return tuple.Second, nil
}

func (i *Interpreter) evaluatePrint(expr *ast.PrintExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluate(expr.Value, env)
	if err != nil {
		return nil, err
	}
	if err := i.printer.PrintLine(runtime.Format(val)); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return val, nil
}
