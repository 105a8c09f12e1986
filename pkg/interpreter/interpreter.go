package interpreter

import (
	"fmt"
	"os"

	"rinha/interpreter-go/pkg/ast"
	"rinha/interpreter-go/pkg/runtime"
)

// Interpreter evaluates program trees. It keeps no state between calls besides
// its output sink, so one instance can run several programs in sequence.
type Interpreter struct {
	printer Printer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithPrinter routes print output to p instead of stdout.
func WithPrinter(p Printer) Option {
	return func(i *Interpreter) {
		if p != nil {
			i.printer = p
		}
	}
}

// New returns an interpreter printing to stdout unless configured otherwise.
func New(opts ...Option) *Interpreter {
	interp := &Interpreter{printer: NewWriterPrinter(os.Stdout)}
	for _, opt := range opts {
		opt(interp)
	}
	return interp
}

// EvaluateFile runs the program rooted at file in an empty environment.
func (i *Interpreter) EvaluateFile(file *ast.File) (runtime.Value, error) {
	if file == nil {
		return nil, fmt.Errorf("interpreter: nil program")
	}
	return i.Evaluate(file.Expression, runtime.EmptyEnvironment())
}

// Evaluate maps a term and environment to a value, or to the first failure
// reached in evaluation order. Failures are *RuntimeError unless the output
// sink itself failed.
func (i *Interpreter) Evaluate(term ast.Term, env *runtime.Environment) (runtime.Value, error) {
	if env == nil {
		env = runtime.EmptyEnvironment()
	}
	return i.evaluate(term, env)
}
