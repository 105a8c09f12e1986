package ast

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const fibProgram = `{
  "name": "fib.rinha",
  "expression": {
    "kind": "Let",
    "name": {"text": "fib", "location": {"start": 4, "end": 7, "filename": "fib.rinha"}},
    "value": {
      "kind": "Function",
      "parameters": [{"text": "n", "location": {"start": 15, "end": 16, "filename": "fib.rinha"}}],
      "value": {
        "kind": "If",
        "condition": {
          "kind": "Binary",
          "lhs": {"kind": "Var", "text": "n", "location": {"start": 28, "end": 29, "filename": "fib.rinha"}},
          "op": "Lt",
          "rhs": {"kind": "Int", "value": 2, "location": {"start": 32, "end": 33, "filename": "fib.rinha"}},
          "location": {"start": 28, "end": 33, "filename": "fib.rinha"}
        },
        "then": {"kind": "Var", "text": "n", "location": {"start": 41, "end": 42, "filename": "fib.rinha"}},
        "otherwise": {
          "kind": "Binary",
          "lhs": {
            "kind": "Call",
            "callee": {"kind": "Var", "text": "fib", "location": {"start": 58, "end": 61, "filename": "fib.rinha"}},
            "arguments": [{
              "kind": "Binary",
              "lhs": {"kind": "Var", "text": "n", "location": {"start": 62, "end": 63, "filename": "fib.rinha"}},
              "op": "Sub",
              "rhs": {"kind": "Int", "value": 1, "location": {"start": 66, "end": 67, "filename": "fib.rinha"}},
              "location": {"start": 62, "end": 67, "filename": "fib.rinha"}
            }],
            "location": {"start": 58, "end": 68, "filename": "fib.rinha"}
          },
          "op": "Add",
          "rhs": {
            "kind": "Call",
            "callee": {"kind": "Var", "text": "fib", "location": {"start": 71, "end": 74, "filename": "fib.rinha"}},
            "arguments": [{
              "kind": "Binary",
              "lhs": {"kind": "Var", "text": "n", "location": {"start": 75, "end": 76, "filename": "fib.rinha"}},
              "op": "Sub",
              "rhs": {"kind": "Int", "value": 2, "location": {"start": 79, "end": 80, "filename": "fib.rinha"}},
              "location": {"start": 75, "end": 80, "filename": "fib.rinha"}
            }],
            "location": {"start": 71, "end": 81, "filename": "fib.rinha"}
          },
          "location": {"start": 58, "end": 81, "filename": "fib.rinha"}
        },
        "location": {"start": 24, "end": 87, "filename": "fib.rinha"}
      },
      "location": {"start": 10, "end": 89, "filename": "fib.rinha"}
    },
    "next": {
      "kind": "Print",
      "value": {
        "kind": "Call",
        "callee": {"kind": "Var", "text": "fib", "location": {"start": 97, "end": 100, "filename": "fib.rinha"}},
        "arguments": [{"kind": "Int", "value": 10, "location": {"start": 101, "end": 103, "filename": "fib.rinha"}}],
        "location": {"start": 97, "end": 104, "filename": "fib.rinha"}
      },
      "location": {"start": 91, "end": 105, "filename": "fib.rinha"}
    },
    "location": {"start": 0, "end": 105, "filename": "fib.rinha"}
  },
  "location": {"start": 0, "end": 105, "filename": "fib.rinha"}
}`

func TestDecodeFileFibonacci(t *testing.T) {
	file, err := DecodeFile(strings.NewReader(fibProgram))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if file.Name != "fib.rinha" {
		t.Fatalf("expected name fib.rinha, got %q", file.Name)
	}
	let, ok := file.Expression.(*LetExpression)
	if !ok {
		t.Fatalf("expected let at root, got %T", file.Expression)
	}
	if let.Name.Text != "fib" {
		t.Fatalf("expected let name fib, got %q", let.Name.Text)
	}
	if got := let.Name.Location(); got.Start != 4 || got.End != 7 {
		t.Fatalf("unexpected binder location %+v", got)
	}
	fn, ok := let.Value.(*FunctionExpression)
	if !ok {
		t.Fatalf("expected function value, got %T", let.Value)
	}
	if names := fn.ParameterNames(); len(names) != 1 || names[0] != "n" {
		t.Fatalf("unexpected parameters %v", names)
	}
	ifExpr, ok := fn.Body.(*IfExpression)
	if !ok {
		t.Fatalf("expected if body, got %T", fn.Body)
	}
	cond, ok := ifExpr.Condition.(*BinaryExpression)
	if !ok || cond.Operator != OpLt {
		t.Fatalf("expected Lt condition, got %#v", ifExpr.Condition)
	}
	sum, ok := ifExpr.Otherwise.(*BinaryExpression)
	if !ok || sum.Operator != OpAdd {
		t.Fatalf("expected Add in else branch, got %#v", ifExpr.Otherwise)
	}
	call, ok := sum.Left.(*CallExpression)
	if !ok || len(call.Arguments) != 1 {
		t.Fatalf("expected single-argument call, got %#v", sum.Left)
	}
	if loc := call.Location(); loc.Start != 58 || loc.End != 68 || loc.Filename != "fib.rinha" {
		t.Fatalf("unexpected call location %+v", loc)
	}
	printExpr, ok := let.Next.(*PrintExpression)
	if !ok {
		t.Fatalf("expected print after let, got %T", let.Next)
	}
	arg := printExpr.Value.(*CallExpression).Arguments[0].(*IntegerLiteral)
	if arg.Value != 10 {
		t.Fatalf("expected fib(10), got fib(%d)", arg.Value)
	}
}

func TestDecodeMissingFieldReportsPath(t *testing.T) {
	src := `{"name": "x", "expression": {"kind": "Let", "name": {"text": "a"}, "value": {"kind": "Int", "value": 1}, "next": {"kind": "Print"}}}`
	_, err := DecodeFile(strings.NewReader(src))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T (%v)", err, err)
	}
	if decodeErr.Path != "expression.next" || decodeErr.Kind != NodePrint {
		t.Fatalf("unexpected error location %q kind %q", decodeErr.Path, decodeErr.Kind)
	}
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestDecodeRejectsUnknownKindAndOperator(t *testing.T) {
	if _, err := DecodeTerm([]byte(`{"kind": "While"}`)); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	_, err := DecodeTerm([]byte(`{"kind": "Binary", "op": "Pow", "lhs": {"kind": "Int", "value": 1}, "rhs": {"kind": "Int", "value": 2}}`))
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for unknown op, got %v", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Path != "$.op" {
		t.Fatalf("expected path $.op, got %v", err)
	}
}

func TestDecodeErrorNodeIsSyntaxError(t *testing.T) {
	src := `{"name": "bad.rinha", "expression": {"kind": "Error", "message": "unexpected token", "full_text": "let = 1", "location": {"start": 4, "end": 5, "filename": "bad.rinha"}}}`
	_, err := DecodeFile(strings.NewReader(src))
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *SyntaxError, got %T (%v)", err, err)
	}
	if synErr.Message != "unexpected token" || synErr.Location.Start != 4 {
		t.Fatalf("unexpected syntax error %+v", synErr)
	}
}

func TestDecodeBinderKind(t *testing.T) {
	term, err := DecodeTerm([]byte(`{"kind": "Function", "parameters": [{"kind": "Var", "text": "a"}, {"text": "b"}], "value": {"kind": "Var", "text": "a"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fn := term.(*FunctionExpression)
	if names := fn.ParameterNames(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected parameters %v", names)
	}

	_, err = DecodeTerm([]byte(`{"kind": "Let", "name": {"kind": "Int", "text": "x"}, "value": {"kind": "Int", "value": 1}, "next": {"kind": "Var", "text": "x"}}`))
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected binder kind rejection, got %v", err)
	}
}

func TestDecodeIntegerForms(t *testing.T) {
	term, err := DecodeTerm([]byte(`{"kind": "Int", "value": "-9223372036854775808"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := term.(*IntegerLiteral).Value; got != -9223372036854775808 {
		t.Fatalf("unexpected value %d", got)
	}
	if _, err := DecodeTerm([]byte(`{"kind": "Int", "value": 1.5}`)); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected fractional literal rejection, got %v", err)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if _, err := DecodeFile(strings.NewReader("")); err == nil || !strings.Contains(err.Error(), "empty input") {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestEncodeFileRoundTrip(t *testing.T) {
	program := Program("sum.rinha", Let("add",
		Fn([]string{"a", "b"}, Bin(OpAdd, ID("a"), ID("b"))),
		Print(Tuple(CallName("add", Int(1), Int(2)), First(Tuple(Str("x"), Bool(true))))),
	))

	var buf bytes.Buffer
	if err := EncodeFile(&buf, program); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeFile(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	let := decoded.Expression.(*LetExpression)
	if let.Name.Text != "add" {
		t.Fatalf("unexpected let name %q", let.Name.Text)
	}
	tuple := let.Next.(*PrintExpression).Value.(*TupleExpression)
	call := tuple.First.(*CallExpression)
	if call.Callee.(*Identifier).Text != "add" || len(call.Arguments) != 2 {
		t.Fatalf("unexpected call %#v", call)
	}
	if _, ok := tuple.Second.(*FirstExpression); !ok {
		t.Fatalf("expected First projection, got %T", tuple.Second)
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	src := `{"name": "a", "expression": {"kind": "Int", "value": 1}} {"kind": "Int", "value": 2}`
	_, err := DecodeFile(strings.NewReader(src))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected trailing data rejection, got %v", err)
	}
	if _, err := DecodeTerm([]byte(`{"kind": "Int", "value": 1}}`)); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected stray brace rejection, got %v", err)
	}
	if _, err := DecodeFile(strings.NewReader("{\"expression\": {\"kind\": \"Int\", \"value\": 1}}\n\n")); err != nil {
		t.Fatalf("expected trailing whitespace to be accepted, got %v", err)
	}
}
