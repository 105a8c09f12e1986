package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// ClosureToken is how closures print; the body is never shown.
const ClosureToken = "<#closure>"

// MismatchError reports an operation applied to operand kinds it does not
// support.
type MismatchError struct {
	Operation string
	Left      Kind
	Right     Kind
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s is not defined for %s and %s", e.Operation, e.Left, e.Right)
}

// Equal compares two values structurally. Integers, booleans and strings
// compare by value and tuples element-wise. Operands of different kinds, or
// any closure, are a mismatch.
func Equal(left, right Value) (bool, error) {
	switch l := left.(type) {
	case IntegerValue:
		if r, ok := right.(IntegerValue); ok {
			return l.Val == r.Val, nil
		}
	case BoolValue:
		if r, ok := right.(BoolValue); ok {
			return l.Val == r.Val, nil
		}
	case StringValue:
		if r, ok := right.(StringValue); ok {
			return l.Val == r.Val, nil
		}
	case TupleValue:
		if r, ok := right.(TupleValue); ok {
			first, err := Equal(l.First, r.First)
			if err != nil {
				return false, err
			}
			second, err := Equal(l.Second, r.Second)
			if err != nil {
				return false, err
			}
			return first && second, nil
		}
	}
	return false, &MismatchError{Operation: "equality", Left: kindOf(left), Right: kindOf(right)}
}

// Compare orders two integers, returning -1, 0 or 1.
func Compare(left, right Value) (int, error) {
	l, lok := left.(IntegerValue)
	r, rok := right.(IntegerValue)
	if !lok || !rok {
		return 0, &MismatchError{Operation: "ordering", Left: kindOf(left), Right: kindOf(right)}
	}
	switch {
	case l.Val < r.Val:
		return -1, nil
	case l.Val > r.Val:
		return 1, nil
	default:
		return 0, nil
	}
}

// Format renders a value the way print shows it.
func Format(val Value) string {
	var b strings.Builder
	writeValue(&b, val)
	return b.String()
}

func writeValue(b *strings.Builder, val Value) {
	switch v := val.(type) {
	case IntegerValue:
		b.WriteString(strconv.FormatInt(v.Val, 10))
	case BoolValue:
		b.WriteString(strconv.FormatBool(v.Val))
	case StringValue:
		b.WriteString(v.Val)
	case TupleValue:
		b.WriteByte('(')
		writeValue(b, v.First)
		b.WriteString(", ")
		writeValue(b, v.Second)
		b.WriteByte(')')
	case *ClosureValue:
		b.WriteString(ClosureToken)
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "[%s]", v.Kind())
	}
}

func kindOf(val Value) Kind {
	if val == nil {
		return Kind(-1)
	}
	return val.Kind()
}
