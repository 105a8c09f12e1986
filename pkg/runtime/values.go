package runtime

import (
	"fmt"

	"rinha/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindBool
	KindString
	KindTuple
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Int"
	case KindBool:
		return "Bool"
	case KindString:
		return "Str"
	case KindTuple:
		return "Tuple"
	case KindClosure:
		return "Function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. The set of
// implementations is closed; values are never mutated after construction.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Tuples
//-----------------------------------------------------------------------------

// TupleValue is a fixed pair; there are no wider tuples.
type TupleValue struct {
	First  Value
	Second Value
}

func (v TupleValue) Kind() Kind { return KindTuple }

//-----------------------------------------------------------------------------
// Closures
//-----------------------------------------------------------------------------

// ClosureValue bundles a function literal with the environment that was
// innermost when the literal was evaluated.
type ClosureValue struct {
	Declaration *ast.FunctionExpression
	Params      []string
	Closure     *Environment
}

func (v *ClosureValue) Kind() Kind { return KindClosure }

// NewClosure captures env for decl.
func NewClosure(decl *ast.FunctionExpression, env *Environment) *ClosureValue {
	return &ClosureValue{
		Declaration: decl,
		Params:      decl.ParameterNames(),
		Closure:     env,
	}
}

// Arity is the number of declared parameters.
func (v *ClosureValue) Arity() int {
	return len(v.Params)
}

// Body is the term evaluated on call.
func (v *ClosureValue) Body() ast.Term {
	if v.Declaration == nil {
		return nil
	}
	return v.Declaration.Body
}
