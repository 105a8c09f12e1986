package interpreter

import (
	"errors"
	"fmt"

	"rinha/interpreter-go/pkg/ast"
	"rinha/interpreter-go/pkg/runtime"
)

// Both operands are always evaluated, left first. And/Or do not short-circuit.
func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	leftVal, err := i.evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	rightVal, err := i.evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr, leftVal, rightVal)
}

func applyBinaryOperator(expr *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	switch expr.Operator {
	case ast.OpAdd:
		if ls, ok := left.(runtime.StringValue); ok {
			if rs, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			}
		}
		return evaluateArithmetic(expr, left, right)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpRem:
		return evaluateArithmetic(expr, left, right)
	case ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		return evaluateComparison(expr, left, right)
	case ast.OpEq, ast.OpNeq:
		return evaluateEquality(expr, left, right)
	case ast.OpAnd, ast.OpOr:
		return evaluateLogical(expr, left, right)
	default:
		return nil, fmt.Errorf("interpreter: unknown operator %q", expr.Operator)
	}
}

// Integer arithmetic wraps on overflow (two's complement), division truncates
// toward zero and the remainder takes the sign of the dividend.
func evaluateArithmetic(expr *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	l, lok := left.(runtime.IntegerValue)
	r, rok := right.(runtime.IntegerValue)
	if !lok || !rok {
		if expr.Operator == ast.OpAdd {
			return nil, typeMismatch(expr, "Add expects two %q or two %q operands, found %q and %q",
				runtime.KindInteger, runtime.KindString, left.Kind(), right.Kind())
		}
		return nil, typeMismatch(expr, "%s expects operands of type %q, found %q and %q",
			expr.Operator, runtime.KindInteger, left.Kind(), right.Kind())
	}
	switch expr.Operator {
	case ast.OpAdd:
		return runtime.IntegerValue{Val: l.Val + r.Val}, nil
	case ast.OpSub:
		return runtime.IntegerValue{Val: l.Val - r.Val}, nil
	case ast.OpMul:
		return runtime.IntegerValue{Val: l.Val * r.Val}, nil
	case ast.OpDiv:
		if r.Val == 0 {
			return nil, divisionByZero(expr)
		}
		return runtime.IntegerValue{Val: l.Val / r.Val}, nil
	case ast.OpRem:
		if r.Val == 0 {
			return nil, divisionByZero(expr)
		}
		return runtime.IntegerValue{Val: l.Val % r.Val}, nil
	default:
		return nil, fmt.Errorf("interpreter: %s is not arithmetic", expr.Operator)
	}
}

func divisionByZero(expr *ast.BinaryExpression) *RuntimeError {
	return newRuntimeError(ReasonDivisionByZero, expr, "Division by zero",
		fmt.Sprintf("Right operand of %s is zero", expr.Operator))
}

func evaluateComparison(expr *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	cmp, err := runtime.Compare(left, right)
	if err != nil {
		return nil, operandMismatch(expr, err)
	}
	var result bool
	switch expr.Operator {
	case ast.OpLt:
		result = cmp < 0
	case ast.OpGt:
		result = cmp > 0
	case ast.OpLte:
		result = cmp <= 0
	case ast.OpGte:
		result = cmp >= 0
	}
	return runtime.BoolValue{Val: result}, nil
}

func evaluateEquality(expr *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	eq, err := runtime.Equal(left, right)
	if err != nil {
		return nil, operandMismatch(expr, err)
	}
	if expr.Operator == ast.OpNeq {
		eq = !eq
	}
	return runtime.BoolValue{Val: eq}, nil
}

func evaluateLogical(expr *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	l, lok := left.(runtime.BoolValue)
	r, rok := right.(runtime.BoolValue)
	if !lok || !rok {
		return nil, typeMismatch(expr, "%s expects operands of type %q, found %q and %q",
			expr.Operator, runtime.KindBool, left.Kind(), right.Kind())
	}
	if expr.Operator == ast.OpAnd {
		return runtime.BoolValue{Val: l.Val && r.Val}, nil
	}
	return runtime.BoolValue{Val: l.Val || r.Val}, nil
}

func operandMismatch(expr *ast.BinaryExpression, err error) error {
	var mismatch *runtime.MismatchError
	if errors.As(err, &mismatch) {
		return typeMismatch(expr, "%s is not defined for %q and %q", expr.Operator, mismatch.Left, mismatch.Right)
	}
	return err
}
