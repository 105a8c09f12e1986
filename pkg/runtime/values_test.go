package runtime

import (
	"errors"
	"testing"

	"rinha/interpreter-go/pkg/ast"
)

func TestEqualStructural(t *testing.T) {
	left := TupleValue{First: IntegerValue{Val: 1}, Second: TupleValue{First: StringValue{Val: "a"}, Second: BoolValue{Val: true}}}
	right := TupleValue{First: IntegerValue{Val: 1}, Second: TupleValue{First: StringValue{Val: "a"}, Second: BoolValue{Val: true}}}
	eq, err := Equal(left, right)
	if err != nil || !eq {
		t.Fatalf("expected nested tuples to be equal, got %v (%v)", eq, err)
	}

	eq, err = Equal(StringValue{Val: "a"}, StringValue{Val: "b"})
	if err != nil || eq {
		t.Fatalf("expected distinct strings to differ, got %v (%v)", eq, err)
	}
}

func TestEqualMismatch(t *testing.T) {
	_, err := Equal(IntegerValue{Val: 1}, StringValue{Val: "1"})
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *MismatchError, got %v", err)
	}
	if mismatch.Left != KindInteger || mismatch.Right != KindString {
		t.Fatalf("unexpected mismatch %+v", mismatch)
	}

	fn := NewClosure(ast.Fn(nil, ast.Int(1)), EmptyEnvironment())
	if _, err := Equal(fn, fn); err == nil {
		t.Fatalf("expected closure equality to fail")
	}
	nested := TupleValue{First: IntegerValue{Val: 1}, Second: fn}
	if _, err := Equal(nested, nested); err == nil {
		t.Fatalf("expected tuple holding a closure to fail equality")
	}
}

func TestCompareIntegersOnly(t *testing.T) {
	cmp, err := Compare(IntegerValue{Val: -3}, IntegerValue{Val: 2})
	if err != nil || cmp != -1 {
		t.Fatalf("expected -1, got %d (%v)", cmp, err)
	}
	if _, err := Compare(StringValue{Val: "a"}, StringValue{Val: "b"}); err == nil {
		t.Fatalf("expected string ordering to fail")
	}
}

func TestFormat(t *testing.T) {
	fn := NewClosure(ast.Fn([]string{"x"}, ast.ID("x")), EmptyEnvironment())
	cases := []struct {
		value Value
		want  string
	}{
		{IntegerValue{Val: -42}, "-42"},
		{BoolValue{Val: false}, "false"},
		{StringValue{Val: "hello world"}, "hello world"},
		{TupleValue{First: IntegerValue{Val: 1}, Second: TupleValue{First: StringValue{Val: "two"}, Second: BoolValue{Val: true}}}, "(1, (two, true))"},
		{fn, ClosureToken},
	}
	for _, tc := range cases {
		if got := Format(tc.value); got != tc.want {
			t.Fatalf("Format(%#v) = %q, want %q", tc.value, got, tc.want)
		}
	}
	if fn.Arity() != 1 || fn.Body() == nil {
		t.Fatalf("unexpected closure shape %+v", fn)
	}
}
