package ast

// Literal helpers.

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func ID(text string) *Identifier {
	return NewIdentifier(text)
}

// Expression helpers.

func Fn(params []string, body Term) *FunctionExpression {
	ids := make([]*Identifier, len(params))
	for i, name := range params {
		ids[i] = ID(name)
	}
	return NewFunctionExpression(ids, body)
}

func Call(callee Term, args ...Term) *CallExpression {
	if args == nil {
		args = []Term{}
	}
	return NewCallExpression(callee, args)
}

func CallName(name string, args ...Term) *CallExpression {
	return Call(ID(name), args...)
}

func Bin(op BinaryOp, left, right Term) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func If(cond, then, otherwise Term) *IfExpression {
	return NewIfExpression(cond, then, otherwise)
}

func Let(name string, value, next Term) *LetExpression {
	return NewLetExpression(ID(name), value, next)
}

func Tuple(first, second Term) *TupleExpression {
	return NewTupleExpression(first, second)
}

func First(value Term) *FirstExpression {
	return NewFirstExpression(value)
}

func Second(value Term) *SecondExpression {
	return NewSecondExpression(value)
}

func Print(value Term) *PrintExpression {
	return NewPrintExpression(value)
}

// At annotates term with loc and returns it, for tests that assert on error
// locations.
func At[T Term](term T, start, end int, filename string) T {
	SetLocation(term, Location{Start: start, End: end, Filename: filename})
	return term
}

// SetLocation annotates the term with the provided location.
func SetLocation(term Term, loc Location) {
	if term == nil {
		return
	}
	if setter, ok := term.(interface{ setLocation(Location) }); ok {
		setter.setLocation(loc)
	}
}

// Program wraps a root term into a File.
func Program(name string, expression Term) *File {
	return &File{Name: name, Expression: expression, Location: expression.Location()}
}
