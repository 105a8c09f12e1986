package ast

type NodeKind string

const (
	NodeIntegerLiteral NodeKind = "Int"
	NodeStringLiteral  NodeKind = "Str"
	NodeBooleanLiteral NodeKind = "Bool"
	NodeIdentifier     NodeKind = "Var"
	NodeFunction       NodeKind = "Function"
	NodeCall           NodeKind = "Call"
	NodeBinary         NodeKind = "Binary"
	NodeIf             NodeKind = "If"
	NodeLet            NodeKind = "Let"
	NodeTuple          NodeKind = "Tuple"
	NodeFirst          NodeKind = "First"
	NodeSecond         NodeKind = "Second"
	NodePrint          NodeKind = "Print"
	NodeError          NodeKind = "Error"
)

// Location is the byte range a term was parsed from.
type Location struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Filename string `json:"filename"`
}

// Term is a node of the program tree. Terms are immutable once decoded.
type Term interface {
	Kind() NodeKind
	Location() Location
	isTerm()
}

type termImpl struct {
	Type NodeKind `json:"kind"`
	Loc  Location `json:"location"`
}

func newTermImpl(kind NodeKind) termImpl {
	return termImpl{Type: kind}
}

func (t termImpl) Kind() NodeKind     { return t.Type }
func (t termImpl) Location() Location { return t.Loc }
func (termImpl) isTerm()              {}

func (t *termImpl) setLocation(loc Location) { t.Loc = loc }

// File is the root object produced by the front end.
type File struct {
	Name       string   `json:"name"`
	Expression Term     `json:"expression"`
	Location   Location `json:"location"`
}

// Literals

type IntegerLiteral struct {
	termImpl

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{termImpl: newTermImpl(NodeIntegerLiteral), Value: value}
}

type StringLiteral struct {
	termImpl

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{termImpl: newTermImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	termImpl

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{termImpl: newTermImpl(NodeBooleanLiteral), Value: value}
}

// Identifier is both a variable reference and the binder used by Let and
// function parameters.
type Identifier struct {
	termImpl

	Text string `json:"text"`
}

func NewIdentifier(text string) *Identifier {
	return &Identifier{termImpl: newTermImpl(NodeIdentifier), Text: text}
}

// Functions and calls

type FunctionExpression struct {
	termImpl

	Parameters []*Identifier `json:"parameters"`
	Body       Term          `json:"value"`
}

func NewFunctionExpression(params []*Identifier, body Term) *FunctionExpression {
	return &FunctionExpression{termImpl: newTermImpl(NodeFunction), Parameters: params, Body: body}
}

// ParameterNames returns the parameter names in declaration order.
func (f *FunctionExpression) ParameterNames() []string {
	names := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		if p != nil {
			names[i] = p.Text
		}
	}
	return names
}

type CallExpression struct {
	termImpl

	Callee    Term   `json:"callee"`
	Arguments []Term `json:"arguments"`
}

func NewCallExpression(callee Term, args []Term) *CallExpression {
	return &CallExpression{termImpl: newTermImpl(NodeCall), Callee: callee, Arguments: args}
}

// Operators

type BinaryOp string

const (
	OpAdd BinaryOp = "Add"
	OpSub BinaryOp = "Sub"
	OpMul BinaryOp = "Mul"
	OpDiv BinaryOp = "Div"
	OpRem BinaryOp = "Rem"
	OpEq  BinaryOp = "Eq"
	OpNeq BinaryOp = "Neq"
	OpLt  BinaryOp = "Lt"
	OpGt  BinaryOp = "Gt"
	OpLte BinaryOp = "Lte"
	OpGte BinaryOp = "Gte"
	OpAnd BinaryOp = "And"
	OpOr  BinaryOp = "Or"
)

var binaryOps = map[BinaryOp]struct{}{
	OpAdd: {}, OpSub: {}, OpMul: {}, OpDiv: {}, OpRem: {},
	OpEq: {}, OpNeq: {}, OpLt: {}, OpGt: {}, OpLte: {}, OpGte: {},
	OpAnd: {}, OpOr: {},
}

// Valid reports whether op is one of the fixed operator tags.
func (op BinaryOp) Valid() bool {
	_, ok := binaryOps[op]
	return ok
}

type BinaryExpression struct {
	termImpl

	Left     Term     `json:"lhs"`
	Operator BinaryOp `json:"op"`
	Right    Term     `json:"rhs"`
}

func NewBinaryExpression(op BinaryOp, left, right Term) *BinaryExpression {
	return &BinaryExpression{termImpl: newTermImpl(NodeBinary), Left: left, Operator: op, Right: right}
}

// Control flow and bindings

type IfExpression struct {
	termImpl

	Condition Term `json:"condition"`
	Then      Term `json:"then"`
	Otherwise Term `json:"otherwise"`
}

func NewIfExpression(cond, then, otherwise Term) *IfExpression {
	return &IfExpression{termImpl: newTermImpl(NodeIf), Condition: cond, Then: then, Otherwise: otherwise}
}

type LetExpression struct {
	termImpl

	Name  *Identifier `json:"name"`
	Value Term        `json:"value"`
	Next  Term        `json:"next"`
}

func NewLetExpression(name *Identifier, value, next Term) *LetExpression {
	return &LetExpression{termImpl: newTermImpl(NodeLet), Name: name, Value: value, Next: next}
}

// Tuples

type TupleExpression struct {
	termImpl

	First  Term `json:"first"`
	Second Term `json:"second"`
}

func NewTupleExpression(first, second Term) *TupleExpression {
	return &TupleExpression{termImpl: newTermImpl(NodeTuple), First: first, Second: second}
}

type FirstExpression struct {
	termImpl

	Value Term `json:"value"`
}

func NewFirstExpression(value Term) *FirstExpression {
	return &FirstExpression{termImpl: newTermImpl(NodeFirst), Value: value}
}

type SecondExpression struct {
	termImpl

	Value Term `json:"value"`
}

func NewSecondExpression(value Term) *SecondExpression {
	return &SecondExpression{termImpl: newTermImpl(NodeSecond), Value: value}
}

// Effects

type PrintExpression struct {
	termImpl

	Value Term `json:"value"`
}

func NewPrintExpression(value Term) *PrintExpression {
	return &PrintExpression{termImpl: newTermImpl(NodePrint), Value: value}
}
